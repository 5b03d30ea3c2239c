package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/posterwatch/mapsync-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for local development; the scheduler supplies real
	// environments itself.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

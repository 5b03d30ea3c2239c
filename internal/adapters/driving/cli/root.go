// Package cli implements the mapsync command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/posterwatch/mapsync-cli/internal/config"
	"github.com/posterwatch/mapsync-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagConfig  string

	// cfg is loaded once per invocation in the persistent pre-run.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mapsync",
	Short: "Publish approved submissions to a shared map layer",
	Long: `mapsync exports approved records from the record store as a CSV,
exposes it over a temporary public tunnel and points the map platform's
"Poster Submissions" layer at it. It is built to run headless under
cron or any external scheduler: one invocation is one sync.

Configuration lives in ~/.mapsync/config.toml; secrets can also come
from the environment (AIRTABLE_API_KEY, NGROK_AUTHTOKEN, FELT_API_KEY).`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		c, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"print pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file path (default ~/.mapsync/config.toml)")
}

// Execute runs the CLI. A non-nil error means the process should exit
// non-zero - the failure indicator the scheduler watches for.
func Execute() error {
	return rootCmd.Execute()
}

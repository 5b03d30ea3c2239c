package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/posterwatch/mapsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent sync runs",
	RunE:  runRuns,
}

var runsLimit int

// runsStoreOpener is swapped out in tests.
var runsStoreOpener = openRunStore

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to show")
	rootCmd.AddCommand(runsCmd)
}

func openRunStore() (driven.RunStore, error) {
	path, err := cfg.HistoryDBPath()
	if err != nil {
		return nil, err
	}
	return sqlite.NewRunStore(path)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	store, err := runsStoreOpener()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if !run.Succeeded() {
			status = "FAILED: " + run.Error
		}
		cmd.Printf("%s  %s  %3d records  %-7s  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(run.ID),
			run.RecordCount,
			run.LayerAction,
			status,
		)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posterwatch/mapsync-cli/internal/adapters/driven/maps/felt"
	"github.com/posterwatch/mapsync-cli/internal/adapters/driven/publish"
	"github.com/posterwatch/mapsync-cli/internal/adapters/driven/records/airtable"
	"github.com/posterwatch/mapsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
	"github.com/posterwatch/mapsync-cli/internal/core/services"
	"github.com/posterwatch/mapsync-cli/internal/logger"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the export-publish-import pipeline once",
	Long: `Fetches approved records, publishes them as a CSV behind a public
tunnel and creates or refreshes the map layer pointing at it. The
tunnel and the local listener are torn down when the run ends,
whether it succeeded or not.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := cfg.ValidateForSync(); err != nil {
		return err
	}

	source, err := airtable.NewClient(airtable.Config{
		APIKey: cfg.Store.APIKey,
		BaseID: cfg.Store.BaseID,
		Table:  cfg.Store.Table,
	})
	if err != nil {
		return err
	}

	platform, err := felt.NewClient(felt.Config{
		APIKey:  cfg.Map.APIKey,
		MapID:   cfg.Map.MapID,
		BaseURL: cfg.Map.BaseURL,
	})
	if err != nil {
		return err
	}

	publisher := publish.NewPublisher(publish.Config{
		AuthToken: cfg.Tunnel.AuthToken,
		Domain:    cfg.Tunnel.Domain,
		LocalPort: cfg.Tunnel.LocalPort,
	})

	// Run history is best effort: a broken store never blocks a sync.
	var runs driven.RunStore
	if path, err := cfg.HistoryDBPath(); err == nil {
		if store, err := sqlite.NewRunStore(path); err == nil {
			runs = store
			defer store.Close()
		} else {
			logger.Warn("Run history unavailable: %v", err)
		}
	}

	pipeline := services.NewPipeline(
		source,
		services.NewProjector(),
		publisher,
		services.NewSynchronizer(platform),
		runs,
		services.PipelineConfig{
			StatusFilter: cfg.Store.StatusFilter,
			LayerName:    cfg.Map.LayerName,
			SettleDelay:  cfg.Pipeline.SettleDelay(),
			ExportPath:   cfg.Pipeline.ExportPath,
		},
	)

	if err := pipeline.Run(context.Background()); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Println("Sync complete.")
	return nil
}

package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
	"github.com/posterwatch/mapsync-cli/internal/logger"
)

// PipelineConfig holds orchestration parameters.
type PipelineConfig struct {
	// StatusFilter selects which records are exported.
	StatusFilter string

	// LayerName is the map layer to create or refresh.
	LayerName string

	// SettleDelay is the wait between triggering the platform import
	// and tearing down the tunnel. The platform's create/refresh call
	// returns before it has fetched the CSV from the public URL, so
	// immediate teardown would race that fetch. Zero skips the wait.
	SettleDelay time.Duration

	// ExportPath, when set, persists the CSV document locally as an
	// audit artifact. Write failures are logged, not fatal.
	ExportPath string
}

// Pipeline runs one export-publish-import cycle. Single logical thread
// of control; every step is sequential and fails fast. Teardown of the
// tunnel and the local listener is guaranteed on every exit path and
// never masks the pipeline error.
type Pipeline struct {
	source    driven.RecordSource
	projector *Projector
	publisher driven.Publisher
	sync      *Synchronizer
	runs      driven.RunStore // optional
	cfg       PipelineConfig
}

// NewPipeline creates a pipeline. runs may be nil to disable history.
func NewPipeline(
	source driven.RecordSource,
	projector *Projector,
	publisher driven.Publisher,
	sync *Synchronizer,
	runs driven.RunStore,
	cfg PipelineConfig,
) *Pipeline {
	return &Pipeline{
		source:    source,
		projector: projector,
		publisher: publisher,
		sync:      sync,
		runs:      runs,
		cfg:       cfg,
	}
}

// Run executes the pipeline once and records the outcome. The returned
// error is the first pipeline step failure; teardown errors are logged
// independently and never override it.
func (p *Pipeline) Run(ctx context.Context) error {
	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	err := p.execute(ctx, run)
	run.FinishedAt = time.Now()
	if err != nil {
		run.Error = err.Error()
		logger.Error("Run %s failed: %v", run.ID, err)
	} else {
		logger.Info("Run %s complete: %d records, layer %s (%s)",
			run.ID, run.RecordCount, run.LayerID, run.LayerAction)
	}

	p.record(ctx, run)
	return err
}

func (p *Pipeline) execute(ctx context.Context, run *domain.SyncRun) error {
	// 1. Fetch approved records. An empty result set still publishes:
	// the layer must reflect the store, so withdrawn records disappear
	// from the map instead of lingering.
	logger.Section("Fetch")
	records, err := p.source.FetchByStatus(ctx, p.cfg.StatusFilter)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}
	run.RecordCount = len(records)
	logger.Info("Fetched %d records with status %q", len(records), p.cfg.StatusFilter)

	// 2. Project to CSV
	logger.Section("Project")
	doc, err := p.projector.BuildCSV(records)
	if err != nil {
		return fmt.Errorf("project csv: %w", err)
	}

	// 3. Optional local artifact
	if p.cfg.ExportPath != "" {
		if err := os.WriteFile(p.cfg.ExportPath, doc, 0644); err != nil {
			logger.Warn("Could not write local artifact %s: %v", p.cfg.ExportPath, err)
		} else {
			logger.Debug("Wrote local artifact %s (%d bytes)", p.cfg.ExportPath, len(doc))
		}
	}

	// 4. Publish over the tunnel
	logger.Section("Publish")
	pub, err := p.publisher.Publish(ctx, doc)
	if err != nil {
		return fmt.Errorf("publish csv: %w", err)
	}
	defer p.teardown(pub)

	run.CSVURL = pub.URL()
	logger.Info("CSV published at %s", pub.URL())

	// 5. Create or refresh the layer
	logger.Section("Synchronize")
	outcome, err := p.sync.Sync(ctx, p.cfg.LayerName, pub.URL())
	if err != nil {
		return fmt.Errorf("synchronize layer: %w", err)
	}
	run.LayerID = outcome.Layer.ID
	run.LayerAction = outcome.Action

	// 6. Settle before the deferred teardown so the platform can fetch
	// the CSV through the tunnel.
	if p.cfg.SettleDelay > 0 {
		logger.Debug("Settling for %s before teardown", p.cfg.SettleDelay)
		select {
		case <-time.After(p.cfg.SettleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// teardown closes the tunnel first, then the local listener. Failures
// are logged and swallowed so they never mask the pipeline error.
func (p *Pipeline) teardown(pub driven.Publication) {
	if err := pub.CloseTunnel(); err != nil {
		logger.Error("Teardown: close tunnel: %v", err)
	}
	if err := pub.CloseListener(); err != nil {
		logger.Error("Teardown: close listener: %v", err)
	}
}

// record saves the run outcome, best effort. A fresh context is used
// so a cancelled run still gets recorded.
func (p *Pipeline) record(_ context.Context, run *domain.SyncRun) {
	if p.runs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.runs.Save(ctx, run); err != nil {
		logger.Warn("Could not record run %s: %v", run.ID, err)
	}
}

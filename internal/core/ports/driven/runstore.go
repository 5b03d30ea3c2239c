package driven

import (
	"context"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
)

// RunStore persists pipeline run outcomes for the run history.
// Recording is best effort: the orchestrator logs store failures but
// never fails a run because of them.
type RunStore interface {
	// Save persists a run outcome.
	Save(ctx context.Context, run *domain.SyncRun) error

	// List returns the most recent runs, newest first, up to limit.
	List(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// Close releases the underlying storage.
	Close() error
}

package domain

import "time"

// LayerAction records which path the synchroniser took for a run.
type LayerAction string

const (
	// LayerActionCreate means no layer matched the name and one was created.
	LayerActionCreate LayerAction = "create"

	// LayerActionRefresh means an existing layer was refreshed in place.
	LayerActionRefresh LayerAction = "refresh"
)

// SyncRun is the outcome of one pipeline run, kept for the run history.
type SyncRun struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	RecordCount int
	LayerID     string
	LayerAction LayerAction
	CSVURL      string

	// Error is the pipeline error message, empty on success.
	Error string
}

// Succeeded reports whether the run completed without a pipeline error.
func (r *SyncRun) Succeeded() bool {
	return r.Error == ""
}

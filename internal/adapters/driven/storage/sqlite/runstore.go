// Package sqlite provides a SQLite-backed run history store.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database defaults to ~/.mapsync/data/runs.db and
// holds one row per pipeline run - metadata only, never the exported
// CSV content.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id            TEXT PRIMARY KEY,
	started_at    TEXT NOT NULL,
	finished_at   TEXT NOT NULL,
	record_count  INTEGER NOT NULL,
	layer_id      TEXT NOT NULL DEFAULT '',
	layer_action  TEXT NOT NULL DEFAULT '',
	csv_url       TEXT NOT NULL DEFAULT '',
	error         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs(started_at);
`

// RunStore persists pipeline run outcomes.
type RunStore struct {
	db *sql.DB
}

// NewRunStore opens (and if needed creates) the run database at path.
func NewRunStore(path string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &RunStore{db: db}, nil
}

// Save persists a run outcome.
func (s *RunStore) Save(ctx context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, finished_at, record_count, layer_id, layer_action, csv_url, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			record_count = excluded.record_count,
			layer_id = excluded.layer_id,
			layer_action = excluded.layer_action,
			csv_url = excluded.csv_url,
			error = excluded.error
	`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.RecordCount,
		run.LayerID,
		string(run.LayerAction),
		run.CSVURL,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, record_count, layer_id, layer_action, csv_url, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Close releases the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

func scanRun(rows *sql.Rows) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var started, finished, action string

	if err := rows.Scan(
		&run.ID, &started, &finished, &run.RecordCount,
		&run.LayerID, &action, &run.CSVURL, &run.Error,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	run.LayerAction = domain.LayerAction(action)

	return &run, nil
}

package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
)

type fakeRunStore struct {
	runs []domain.SyncRun
}

func (f *fakeRunStore) Save(_ context.Context, run *domain.SyncRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeRunStore) List(_ context.Context, limit int) ([]domain.SyncRun, error) {
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeRunStore) Close() error { return nil }

func withFakeStore(t *testing.T, store driven.RunStore) {
	t.Helper()
	old := runsStoreOpener
	runsStoreOpener = func() (driven.RunStore, error) { return store, nil }
	t.Cleanup(func() { runsStoreOpener = old })
}

func newCaptureCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

func TestRunRuns_EmptyHistory(t *testing.T) {
	withFakeStore(t, &fakeRunStore{})

	cmd, buf := newCaptureCommand()
	require.NoError(t, runRuns(cmd, nil))

	assert.Contains(t, buf.String(), "No runs recorded yet.")
}

func TestRunRuns_FormatsOutcomes(t *testing.T) {
	started := time.Date(2026, 8, 20, 9, 15, 0, 0, time.UTC)
	withFakeStore(t, &fakeRunStore{runs: []domain.SyncRun{
		{
			ID:          "aaaaaaaa-1111-2222-3333-444444444444",
			StartedAt:   started,
			FinishedAt:  started.Add(20 * time.Second),
			RecordCount: 12,
			LayerAction: domain.LayerActionRefresh,
		},
		{
			ID:          "bbbbbbbb-1111-2222-3333-444444444444",
			StartedAt:   started.Add(-time.Hour),
			FinishedAt:  started.Add(-time.Hour + 5*time.Second),
			RecordCount: 0,
			Error:       "publish csv: tunnel establishment failed",
		},
	}})

	cmd, buf := newCaptureCommand()
	require.NoError(t, runRuns(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "refresh")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "FAILED: publish csv: tunnel establishment failed")
}

package driven

import (
	"context"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
)

// RecordSource reads records from the external record store.
type RecordSource interface {
	// FetchByStatus returns every record whose status matches the filter,
	// in store order. It exhausts all result pages before returning; no
	// pagination is exposed to the caller. An empty result is a valid,
	// non-error outcome. Failures wrap domain.ErrFetch.
	FetchByStatus(ctx context.Context, status string) ([]domain.Record, error)
}

package driven

import (
	"context"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
)

// MapPlatform is the external mapping service that hosts layers.
// Implementations are bound to a single map id at construction time.
type MapPlatform interface {
	// ListLayers returns the layers currently on the map.
	ListLayers(ctx context.Context) ([]domain.Layer, error)

	// CreateLayer creates a new layer backed by the import URL and
	// returns the platform's representation of it.
	CreateLayer(ctx context.Context, name, importURL string) (*domain.Layer, error)

	// RefreshLayer replaces an existing layer's backing data source
	// with the import URL.
	RefreshLayer(ctx context.Context, layerID, importURL string) error
}

package services

import (
	"context"
	"fmt"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
	"github.com/posterwatch/mapsync-cli/internal/logger"
)

// Synchronizer points a named map layer at a freshly published CSV URL.
// It never creates a second layer for a name that already exists on the
// map: present means refresh, absent means create.
type Synchronizer struct {
	platform driven.MapPlatform
}

// NewSynchronizer creates a synchroniser for the platform.
func NewSynchronizer(platform driven.MapPlatform) *Synchronizer {
	return &Synchronizer{platform: platform}
}

// SyncOutcome reports what the synchroniser did.
type SyncOutcome struct {
	Layer  domain.Layer
	Action domain.LayerAction
}

// Sync looks the layer up by name and creates or refreshes it with the
// import URL. All platform failures wrap domain.ErrLayerSync; nothing
// is retried and platform state is never rolled back.
func (s *Synchronizer) Sync(ctx context.Context, layerName, importURL string) (*SyncOutcome, error) {
	layers, err := s.platform.ListLayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list layers: %w", domain.ErrLayerSync, err)
	}

	for _, layer := range layers {
		if layer.Name != layerName {
			continue
		}

		logger.Debug("Layer %q exists (id %s), refreshing", layerName, layer.ID)
		if err := s.platform.RefreshLayer(ctx, layer.ID, importURL); err != nil {
			return nil, fmt.Errorf("%w: refresh layer %s: %w", domain.ErrLayerSync, layer.ID, err)
		}
		return &SyncOutcome{Layer: layer, Action: domain.LayerActionRefresh}, nil
	}

	logger.Debug("Layer %q not found, creating", layerName)
	created, err := s.platform.CreateLayer(ctx, layerName, importURL)
	if err != nil {
		return nil, fmt.Errorf("%w: create layer %q: %w", domain.ErrLayerSync, layerName, err)
	}
	return &SyncOutcome{Layer: *created, Action: domain.LayerActionCreate}, nil
}

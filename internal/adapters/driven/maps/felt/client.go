// Package felt provides a MapPlatform adapter for the Felt map API.
package felt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.MapPlatform = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://felt.com/api/v2"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Felt client.
type Config struct {
	// APIKey is the bearer token (required).
	APIKey string

	// MapID identifies the map carrying the layers (required).
	MapID string

	// BaseURL is the API base URL (default: https://felt.com/api/v2).
	BaseURL string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration
}

// Client talks to the layer endpoints of one Felt map.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	mapID   string
}

// StatusError is a non-success platform response, carrying the HTTP
// status and body for the operator's log.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform returned status %d: %s", e.Status, e.Body)
}

// layerJSON is the platform's layer representation.
type layerJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// uploadRequest is the create-layer request body.
type uploadRequest struct {
	Name      string `json:"name"`
	ImportURL string `json:"import_url"`
}

// refreshRequest is the refresh-layer request body.
type refreshRequest struct {
	ImportURL string `json:"import_url"`
}

// NewClient creates a new Felt client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("felt: API key is required")
	}
	if cfg.MapID == "" {
		return nil, fmt.Errorf("felt: map id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		mapID:   cfg.MapID,
	}, nil
}

// ListLayers returns the layers currently on the map.
func (c *Client) ListLayers(ctx context.Context) ([]domain.Layer, error) {
	var raw []layerJSON
	path := fmt.Sprintf("/maps/%s/layers", c.mapID)
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	layers := make([]domain.Layer, len(raw))
	for i, l := range raw {
		layers[i] = domain.Layer{ID: l.ID, Name: l.Name}
	}
	return layers, nil
}

// CreateLayer creates a layer backed by the import URL.
func (c *Client) CreateLayer(ctx context.Context, name, importURL string) (*domain.Layer, error) {
	var created layerJSON
	path := fmt.Sprintf("/maps/%s/upload", c.mapID)
	body := uploadRequest{Name: name, ImportURL: importURL}
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}

	layer := domain.Layer{ID: created.ID, Name: created.Name}
	if layer.Name == "" {
		layer.Name = name
	}
	return &layer, nil
}

// RefreshLayer replaces the layer's backing data source with the
// import URL.
func (c *Client) RefreshLayer(ctx context.Context, layerID, importURL string) error {
	path := fmt.Sprintf("/maps/%s/layers/%s/refresh", c.mapID, layerID)
	return c.do(ctx, http.MethodPost, path, refreshRequest{ImportURL: importURL}, nil)
}

// do sends one JSON request and decodes the response into out when
// non-nil. Non-2xx responses become a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(respBody)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Package airtable provides a RecordSource adapter for the Airtable REST API.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
	"github.com/posterwatch/mapsync-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RecordSource = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.airtable.com/v0"
	DefaultTimeout = 30 * time.Second

	// The public API allows 5 requests per second per base.
	defaultRatePerSecond = 5.0
	defaultBurst         = 5
)

// Config holds configuration for the Airtable client.
type Config struct {
	// APIKey is the bearer token (required).
	APIKey string

	// BaseID is the dataset id, e.g. "appXXXXXXXXXXXXXX" (required).
	BaseID string

	// Table is the table name to query (required).
	Table string

	// BaseURL is the API base URL (default: https://api.airtable.com/v0).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client fetches records from one Airtable table.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	baseID  string
	table   string
	limiter *rate.Limiter
}

// listResponse is the Airtable list-records response format.
type listResponse struct {
	Records []struct {
		ID     string         `json:"id"`
		Fields map[string]any `json:"fields"`
	} `json:"records"`
	Offset string `json:"offset"`
}

// NewClient creates a new Airtable client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("airtable: API key is required")
	}
	if cfg.BaseID == "" {
		return nil, fmt.Errorf("airtable: base id is required")
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("airtable: table name is required")
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
		baseID:  cfg.BaseID,
		table:   cfg.Table,
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultBurst),
	}, nil
}

// FetchByStatus returns all records whose Status field matches status,
// following the offset token until the result set is exhausted. The
// caller never sees pagination. Failures wrap domain.ErrFetch.
func (c *Client) FetchByStatus(ctx context.Context, status string) ([]domain.Record, error) {
	formula := fmt.Sprintf("{Status} = '%s'", escapeFormulaValue(status))

	var records []domain.Record
	offset := ""
	page := 0

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
		}

		resp, err := c.listPage(ctx, formula, offset)
		if err != nil {
			return nil, err
		}

		page++
		logger.Debug("Fetched page %d: %d records", page, len(resp.Records))

		for _, rec := range resp.Records {
			records = append(records, domain.Record(rec.Fields))
		}

		if resp.Offset == "" {
			return records, nil
		}
		offset = resp.Offset
	}
}

// listPage fetches one page of filtered records.
func (c *Client) listPage(ctx context.Context, formula, offset string) (*listResponse, error) {
	query := url.Values{}
	query.Set("filterByFormula", formula)
	if offset != "" {
		query.Set("offset", offset)
	}

	endpoint := fmt.Sprintf("%s/%s/%s?%s",
		c.baseURL, c.baseID, url.PathEscape(c.table), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: store returned status %d: %s",
			domain.ErrFetch, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrFetch, err)
	}

	return &list, nil
}

// escapeFormulaValue escapes a value for use inside a single-quoted
// filterByFormula string literal.
func escapeFormulaValue(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}

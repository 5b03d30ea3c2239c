// Package config provides configuration for the mapsync CLI.
// Settings are loaded from a TOML file (default ~/.mapsync/config.toml)
// and overridden by environment variables, so secrets can stay out of
// the file on shared machines. Validation fails fast before a run
// touches any external system.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when neither file nor environment provides a value.
const (
	DefaultStatusFilter  = "Approved"
	DefaultLayerName     = "Poster Submissions"
	DefaultSettleSeconds = 10
)

// Config holds all settings for one pipeline run.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Tunnel   TunnelConfig   `toml:"tunnel"`
	Map      MapConfig      `toml:"map"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// StoreConfig configures the record store client.
type StoreConfig struct {
	// APIKey is the record store bearer token (env AIRTABLE_API_KEY).
	APIKey string `toml:"api_key"`

	// BaseID is the dataset id holding the submissions (env AIRTABLE_BASE_ID).
	BaseID string `toml:"base_id"`

	// Table is the table name to query (env AIRTABLE_TABLE).
	Table string `toml:"table"`

	// StatusFilter selects which records are exported (default "Approved").
	StatusFilter string `toml:"status_filter"`
}

// TunnelConfig configures the public tunnel.
type TunnelConfig struct {
	// AuthToken authenticates against the tunnel relay (env NGROK_AUTHTOKEN).
	AuthToken string `toml:"auth_token"`

	// Domain is an optional reserved tunnel domain. Empty means a
	// random endpoint per run (env NGROK_DOMAIN).
	Domain string `toml:"domain"`

	// LocalPort is the local listener port. 0 lets the kernel pick a
	// free port.
	LocalPort int `toml:"local_port"`
}

// MapConfig configures the map platform client.
type MapConfig struct {
	// APIKey is the platform bearer token (env FELT_API_KEY).
	APIKey string `toml:"api_key"`

	// MapID identifies the map carrying the layer (env FELT_MAP_ID).
	MapID string `toml:"map_id"`

	// LayerName is the layer created or refreshed on each run
	// (default "Poster Submissions").
	LayerName string `toml:"layer_name"`

	// BaseURL overrides the platform API base URL. Empty uses the
	// client default; set in tests.
	BaseURL string `toml:"base_url"`
}

// PipelineConfig configures orchestration behaviour.
type PipelineConfig struct {
	// SettleSeconds is the wait after triggering the platform import
	// before teardown, giving the platform time to fetch the CSV
	// through the tunnel. An approximation, not a readiness check.
	SettleSeconds int `toml:"settle_seconds"`

	// ExportPath, when set, writes the generated CSV to this file as a
	// local audit artifact. Failures to write are logged, not fatal.
	ExportPath string `toml:"export_path"`

	// HistoryPath is the run history database location. Empty uses
	// <config dir>/data/runs.db.
	HistoryPath string `toml:"history_path"`
}

// SettleDelay returns the settle wait as a duration.
func (p PipelineConfig) SettleDelay() time.Duration {
	return time.Duration(p.SettleSeconds) * time.Second
}

// DefaultDir returns the mapsync config directory (~/.mapsync).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mapsync"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path (default location when empty),
// applies defaults and environment overrides. A missing file is not an
// error: everything can come from the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No config file yet - environment only.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to path (default location when empty) with
// restricted permissions, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	// Holds secrets - keep it private.
	return os.WriteFile(path, data, 0600)
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	setString(&c.Store.APIKey, "AIRTABLE_API_KEY")
	setString(&c.Store.BaseID, "AIRTABLE_BASE_ID")
	setString(&c.Store.Table, "AIRTABLE_TABLE")
	setString(&c.Store.StatusFilter, "MAPSYNC_STATUS_FILTER")

	setString(&c.Tunnel.AuthToken, "NGROK_AUTHTOKEN")
	setString(&c.Tunnel.Domain, "NGROK_DOMAIN")
	setInt(&c.Tunnel.LocalPort, "MAPSYNC_LOCAL_PORT")

	setString(&c.Map.APIKey, "FELT_API_KEY")
	setString(&c.Map.MapID, "FELT_MAP_ID")
	setString(&c.Map.LayerName, "MAPSYNC_LAYER_NAME")
	setString(&c.Map.BaseURL, "MAPSYNC_MAP_BASE_URL")

	setInt(&c.Pipeline.SettleSeconds, "MAPSYNC_SETTLE_SECONDS")
	setString(&c.Pipeline.ExportPath, "MAPSYNC_EXPORT_PATH")
	setString(&c.Pipeline.HistoryPath, "MAPSYNC_HISTORY_PATH")
}

// applyDefaults fills values that remain unset.
func (c *Config) applyDefaults() {
	if c.Store.StatusFilter == "" {
		c.Store.StatusFilter = DefaultStatusFilter
	}
	if c.Map.LayerName == "" {
		c.Map.LayerName = DefaultLayerName
	}
	if c.Pipeline.SettleSeconds == 0 {
		c.Pipeline.SettleSeconds = DefaultSettleSeconds
	}
}

// ValidateForSync checks everything a pipeline run needs.
func (c *Config) ValidateForSync() error {
	var missing []string
	if c.Store.APIKey == "" {
		missing = append(missing, "store api_key (AIRTABLE_API_KEY)")
	}
	if c.Store.BaseID == "" {
		missing = append(missing, "store base_id (AIRTABLE_BASE_ID)")
	}
	if c.Store.Table == "" {
		missing = append(missing, "store table (AIRTABLE_TABLE)")
	}
	if c.Tunnel.AuthToken == "" {
		missing = append(missing, "tunnel auth_token (NGROK_AUTHTOKEN)")
	}
	if c.Map.APIKey == "" {
		missing = append(missing, "map api_key (FELT_API_KEY)")
	}
	if c.Map.MapID == "" {
		missing = append(missing, "map map_id (FELT_MAP_ID)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %v", missing)
	}
	if c.Tunnel.LocalPort < 0 || c.Tunnel.LocalPort > 65535 {
		return fmt.Errorf("local_port out of range: %d", c.Tunnel.LocalPort)
	}
	if c.Pipeline.SettleSeconds < 0 {
		return fmt.Errorf("settle_seconds must not be negative: %d", c.Pipeline.SettleSeconds)
	}
	return nil
}

// HistoryDBPath resolves the run history database location.
func (c *Config) HistoryDBPath() (string, error) {
	if c.Pipeline.HistoryPath != "" {
		return c.Pipeline.HistoryPath, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data", "runs.db"), nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

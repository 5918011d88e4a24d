// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache backends accepted in cache_backend.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// Defaults applied by MergeWithDefaults when the caller passes Defaults().
const (
	DefaultFetchRate           = 1.0
	DefaultFetchTimeoutSeconds = 30
	DefaultConcurrency         = 4
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Cache
	CacheBackend string `json:"cache_backend,omitempty"` // file, sqlite, postgres or none
	CacheDir     string `json:"cache_dir,omitempty"`     // Directory for the file cache
	SQLitePath   string `json:"sqlite_path,omitempty"`   // Database file for the sqlite cache
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL

	// Extraction
	PatternsFile string `json:"patterns_file,omitempty"` // YAML overlay for selectors and keywords

	// Fetching
	UseBrowser          bool    `json:"use_browser,omitempty"`           // Use headless browser for SPA sites
	FetchRate           float64 `json:"fetch_rate,omitempty"`            // Requests per second per host
	FetchTimeoutSeconds int     `json:"fetch_timeout_seconds,omitempty"` // Per-request timeout

	// Behavior
	Verbose     bool `json:"verbose,omitempty"`     // Print detailed debug information
	Concurrency int  `json:"concurrency,omitempty"` // Parallel parses in batch mode
}

// DefaultCacheDir returns ~/.resume-cli/cache/jobs, falling back to a
// relative path when the home directory is unknown.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".resume-cli", "cache", "jobs")
	}
	return filepath.Join(home, ".resume-cli", "cache", "jobs")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	dir := DefaultCacheDir()
	return Config{
		CacheBackend:        BackendFile,
		CacheDir:            dir,
		SQLitePath:          filepath.Join(filepath.Dir(dir), "jobs.db"),
		FetchRate:           DefaultFetchRate,
		FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
		Concurrency:         DefaultConcurrency,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case "", BackendFile, BackendSQLite, BackendNone:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres cache backend")
		}
	default:
		return fmt.Errorf("config error: unknown cache_backend %q", c.CacheBackend)
	}

	// Validate numeric ranges
	if c.FetchRate < 0 {
		return fmt.Errorf("config error: 'fetch_rate' must be non-negative")
	}
	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'fetch_timeout_seconds' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	if c.PatternsFile != "" {
		if _, err := os.Stat(c.PatternsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: patterns file not found: %s", c.PatternsFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.CacheBackend == "" {
		result.CacheBackend = defaults.CacheBackend
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.PatternsFile == "" {
		result.PatternsFile = defaults.PatternsFile
	}

	// Numeric fields: use default if zero
	if result.FetchRate == 0 {
		result.FetchRate = defaults.FetchRate
	}
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills the cache location from DATABASE_URL and JOBPARSE_CACHE_DIR
// when the configuration leaves them empty.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.DatabaseURL == "" {
		c.DatabaseURL = getenv("DATABASE_URL")
	}
	if c.CacheDir == "" {
		c.CacheDir = getenv("JOBPARSE_CACHE_DIR")
	}
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return DefaultFetchTimeoutSeconds * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

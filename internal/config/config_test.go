package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"cache_backend": "sqlite",
		"sqlite_path": "/tmp/jobs.db",
		"fetch_rate": 0.5,
		"concurrency": 8,
		"use_browser": true,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, BackendSQLite, cfg.CacheBackend)
	assert.Equal(t, "/tmp/jobs.db", cfg.SQLitePath)
	assert.Equal(t, 0.5, cfg.FetchRate)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.True(t, cfg.UseBrowser)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"file backend", Config{CacheBackend: BackendFile, Concurrency: 2}, ""},
		{"none backend", Config{CacheBackend: BackendNone}, ""},
		{"postgres with url", Config{CacheBackend: BackendPostgres, DatabaseURL: "postgres://localhost/jobs"}, ""},
		{"postgres without url", Config{CacheBackend: BackendPostgres}, "database_url"},
		{"unknown backend", Config{CacheBackend: "redis"}, "unknown cache_backend"},
		{"negative rate", Config{FetchRate: -1}, "fetch_rate"},
		{"negative timeout", Config{FetchTimeoutSeconds: -5}, "fetch_timeout_seconds"},
		{"negative concurrency", Config{Concurrency: -1}, "concurrency"},
		{"missing patterns file", Config{PatternsFile: "/nonexistent/patterns.yaml"}, "patterns file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		CacheBackend: BackendSQLite,
		Concurrency:  2,
	}

	merged := partial.MergeWithDefaults(Defaults())

	// Custom values should be preserved
	assert.Equal(t, BackendSQLite, merged.CacheBackend)
	assert.Equal(t, 2, merged.Concurrency)

	// Default values should fill in empty fields
	assert.Equal(t, DefaultCacheDir(), merged.CacheDir)
	assert.Equal(t, DefaultFetchRate, merged.FetchRate)
	assert.Equal(t, DefaultFetchTimeoutSeconds, merged.FetchTimeoutSeconds)
	assert.NotEmpty(t, merged.SQLitePath)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{CacheDir: "/var/cache/jobs"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "/var/cache/jobs", merged.CacheDir)
	assert.Empty(t, merged.CacheBackend)
}

func TestDefaultCacheDir(t *testing.T) {
	dir := DefaultCacheDir()
	assert.Equal(t, "jobs", filepath.Base(dir))
	assert.Contains(t, dir, filepath.Join(".resume-cli", "cache"))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DATABASE_URL":       "postgres://env/jobs",
		"JOBPARSE_CACHE_DIR": "/env/cache",
	}
	getenv := func(k string) string { return env[k] }

	cfg := Config{}
	cfg.ApplyEnv(getenv)
	assert.Equal(t, "postgres://env/jobs", cfg.DatabaseURL)
	assert.Equal(t, "/env/cache", cfg.CacheDir)

	explicit := Config{DatabaseURL: "postgres://file/jobs"}
	explicit.ApplyEnv(getenv)
	assert.Equal(t, "postgres://file/jobs", explicit.DatabaseURL)
}

func TestFetchTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, (&Config{}).FetchTimeout())
	assert.Equal(t, 5*time.Second, (&Config{FetchTimeoutSeconds: 5}).FetchTimeout())
}

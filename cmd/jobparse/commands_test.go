package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		name string
		page string
		args []string
		want string
	}{
		{"linkedin", linkedInPage, nil, "linkedin"},
		{"generic", genericPage, nil, "generic"},
		{"url reported separately", genericPage, []string{"--url", "https://www.indeed.com/viewjob?jk=1"}, "generic\nurl: indeed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			path := writeFile(t, "page.html", tt.page)

			out, err := execute(t, append([]string{"detect", "--file", path}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestDetectCommand_MissingFile(t *testing.T) {
	resetFlags(t)
	_, err := execute(t, "detect", "--file", "/nonexistent/page.html")
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	resetFlags(t)
	dir := filepath.Join(t.TempDir(), "cache")
	page := writeFile(t, "page.html", genericPage)
	const identity = "https://numbers.example/jobs/9"

	_, err := execute(t, "parse", "--cache-dir", dir, "--file", page, "--identity", identity)
	require.NoError(t, err)

	resetFlags(t)
	out, err := execute(t, "cache", "get", "--cache-dir", dir, identity)
	require.NoError(t, err)
	assert.Contains(t, out, `"company": "Numbers Inc"`)

	resetFlags(t)
	out, err = execute(t, "cache", "delete", "--cache-dir", dir, identity)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed "+identity)

	resetFlags(t)
	_, err = execute(t, "cache", "get", "--cache-dir", dir, identity)
	assert.Error(t, err)

	resetFlags(t)
	out, err = execute(t, "cache", "clear", "--cache-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 cached postings")
}

func TestCacheCommands_Disabled(t *testing.T) {
	resetFlags(t)
	_, err := execute(t, "cache", "clear", "--cache-backend", "none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caching is disabled")
}

func TestLoadSettings(t *testing.T) {
	resetFlags(t)
	t.Setenv("JOBPARSE_CACHE_DIR", "/env/cache")
	cfgPath := writeFile(t, "config.json", `{"cache_backend": "sqlite", "concurrency": 3}`)

	configPath = cfgPath
	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.CacheBackend)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "/env/cache", cfg.CacheDir)

	cacheBackend = "none"
	cacheDir = "/flag/cache"
	cfg, err = loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.CacheBackend)
	assert.Equal(t, "/flag/cache", cfg.CacheDir)
}

func TestLoadSettings_Invalid(t *testing.T) {
	resetFlags(t)
	cacheBackend = "redis"
	_, err := loadSettings()
	assert.Error(t, err)
}

func TestLoadLibrary_Overlay(t *testing.T) {
	resetFlags(t)
	overlay := writeFile(t, "patterns.yaml", `
sources:
  indeed:
    probes: ["careers.acme.example"]
`)
	patternsFile = overlay
	cfg, err := loadSettings()
	require.NoError(t, err)

	lib, err := loadLibrary(cfg)
	require.NoError(t, err)

	var probes []string
	for _, p := range lib.SourceProbes {
		probes = append(probes, p.Probes...)
	}
	assert.Contains(t, probes, "careers.acme.example")
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/job-parser/internal/cache"
	"github.com/jonathan/job-parser/internal/config"
	"github.com/jonathan/job-parser/internal/fetch"
	"github.com/jonathan/job-parser/internal/parsing"
	"github.com/jonathan/job-parser/internal/patterns"
)

// loadSettings resolves the effective configuration: flags win over the
// config file, which wins over the environment and built-in defaults.
func loadSettings() (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cacheBackend != "" {
		cfg.CacheBackend = cacheBackend
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if patternsFile != "" {
		cfg.PatternsFile = patternsFile
	}
	if verbose {
		cfg.Verbose = true
	}

	cfg.ApplyEnv(os.Getenv)
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger returns the command logger, writing to stderr by default.
func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.New(w, "", log.LstdFlags)
}

// loadLibrary returns the built-in patterns extended by the configured overlay.
func loadLibrary(cfg config.Config) (*patterns.Library, error) {
	lib := patterns.Default()
	if cfg.PatternsFile == "" {
		return lib, nil
	}
	ov, err := patterns.LoadOverlay(cfg.PatternsFile)
	if err != nil {
		return nil, err
	}
	return lib.ApplyOverlay(ov)
}

// openStore opens the configured cache, or none when disabled.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger, disabled bool) (cache.Store, func() error, error) {
	if disabled {
		return nil, func() error { return nil }, nil
	}
	store, closeFn, err := cache.Open(ctx, cache.Options{
		Backend:     cfg.CacheBackend,
		Dir:         cfg.CacheDir,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s cache: %w", cfg.CacheBackend, err)
	}
	return store, closeFn, nil
}

// newEngine builds an engine over store using the configured patterns.
func newEngine(cfg config.Config, store cache.Store, logger *log.Logger) (*parsing.Engine, error) {
	lib, err := loadLibrary(cfg)
	if err != nil {
		return nil, err
	}
	return parsing.NewEngine(store,
		parsing.WithLibrary(lib),
		parsing.WithLogger(logger),
		parsing.WithVerbose(cfg.Verbose),
	), nil
}

// newFetcher builds the HTTP fetcher, with the browser fallback when enabled.
func newFetcher(cfg config.Config, logger *log.Logger) *fetch.Fetcher {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.FetchTimeout()

	fetchOpts := []fetch.Option{
		fetch.WithOptions(opts),
		fetch.WithLimiter(fetch.NewHostLimiter(cfg.FetchRate, 1)),
		fetch.WithLogger(logger, cfg.Verbose),
	}
	if cfg.UseBrowser {
		fetchOpts = append(fetchOpts, fetch.WithRenderer(&fetch.ChromeRenderer{
			Timeout: cfg.FetchTimeout(),
			Logger:  logger,
			Verbose: cfg.Verbose,
		}))
	}
	return fetch.New(fetchOpts...)
}

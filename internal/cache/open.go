package cache

import (
	"context"
	"fmt"
	"log"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendNone     = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string
	SQLitePath  string
	DatabaseURL string
	Logger      *log.Logger
}

// Open builds the configured store. The returned close function is never nil.
// BackendNone returns a nil Store, which disables caching in the engine.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	switch opts.Backend {
	case "", BackendFile:
		s, err := NewFileStore(opts.Dir, WithFileLogger(logger))
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case BackendSQLite:
		s, err := OpenSQLite(ctx, opts.SQLitePath, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, noop, &StoreError{Message: "postgres backend needs a database URL"}
		}
		s, err := OpenPostgres(ctx, opts.DatabaseURL, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendNone:
		return nil, noop, nil
	default:
		return nil, noop, &StoreError{Message: fmt.Sprintf("unknown cache backend %q", opts.Backend)}
	}
}

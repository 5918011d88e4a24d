package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/jonathan/job-parser/internal/types"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore keeps one <key>.json file per posting in a directory. Writes go
// to a temp file and are renamed into place, so readers never see a partial
// entry. Writers and Clear hold a lock file shared with other processes.
type FileStore struct {
	dir    string
	lock   *flock.Flock
	mu     sync.Mutex
	logger *log.Logger
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileLogger sets the logger used for corrupt-entry warnings.
func WithFileLogger(l *log.Logger) FileStoreOption {
	return func(s *FileStore) { s.logger = l }
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	if dir == "" {
		return nil, &StoreError{Message: "cache directory is empty"}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StoreError{Message: fmt.Sprintf("failed to create cache directory %s", dir), Cause: err}
	}

	s := &FileStore{
		dir:    dir,
		lock:   flock.New(filepath.Join(dir, ".lock")),
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(identity string) string {
	return filepath.Join(s.dir, Key(identity)+".json")
}

func (s *FileStore) Get(ctx context.Context, identity string) (*types.JobPosting, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(s.path(identity))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &StoreError{Message: "failed to read entry", Cause: err}
	}

	posting, ok := decode(data, s.logger, identity)
	return posting, ok, nil
}

func (s *FileStore) Put(ctx context.Context, identity string, posting *types.JobPosting) error {
	data, err := encode(posting)
	if err != nil {
		return err
	}

	return s.withLock(ctx, func() error {
		tmp, err := os.CreateTemp(s.dir, ".entry-*.tmp")
		if err != nil {
			return &StoreError{Message: "failed to create temp file", Cause: err}
		}
		tmpName := tmp.Name()
		defer os.Remove(tmpName)

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return &StoreError{Message: "failed to write entry", Cause: err}
		}
		if err := tmp.Close(); err != nil {
			return &StoreError{Message: "failed to write entry", Cause: err}
		}
		if err := os.Rename(tmpName, s.path(identity)); err != nil {
			return &StoreError{Message: "failed to replace entry", Cause: err}
		}
		return nil
	})
}

func (s *FileStore) Delete(ctx context.Context, identity string) (bool, error) {
	var removed bool
	err := s.withLock(ctx, func() error {
		err := os.Remove(s.path(identity))
		switch {
		case err == nil:
			removed = true
		case errors.Is(err, os.ErrNotExist):
		default:
			return &StoreError{Message: "failed to delete entry", Cause: err}
		}
		return nil
	})
	return removed, err
}

// Clear removes every *.json entry and returns how many were removed.
func (s *FileStore) Clear(ctx context.Context) (int, error) {
	var count int
	err := s.withLock(ctx, func() error {
		matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
		if err != nil {
			return &StoreError{Message: "failed to list entries", Cause: err}
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return &StoreError{Message: fmt.Sprintf("failed to remove %s", filepath.Base(m)), Cause: err}
			}
			count++
		}
		return nil
	})
	return count, err
}

// withLock serializes fn against other goroutines and, through the lock
// file, other processes.
func (s *FileStore) withLock(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return &StoreError{Message: "failed to acquire cache lock", Cause: err}
	}
	if !locked {
		return &StoreError{Message: "failed to acquire cache lock"}
	}
	defer s.lock.Unlock()

	return fn()
}

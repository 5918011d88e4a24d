// Package cache persists parsed job postings keyed by their identity (usually
// the posting URL).
package cache

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/job-parser/internal/schemas"
	"github.com/jonathan/job-parser/internal/types"
)

// Store is a keyed store of parsed postings. Implementations are safe for
// concurrent use. A corrupt entry reads as a miss, never as an error.
type Store interface {
	Get(ctx context.Context, identity string) (*types.JobPosting, bool, error)
	Put(ctx context.Context, identity string, posting *types.JobPosting) error
	Delete(ctx context.Context, identity string) (bool, error)
	Clear(ctx context.Context) (int, error)
}

// Key derives the storage key for an identity. The same identity always maps
// to the same key, across processes and runs.
func Key(identity string) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(identity)).String()
}

// StoreError reports a storage failure (I/O, database).
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// decode validates and decodes a stored entry. ok is false for corrupt data.
func decode(data []byte, logger *log.Logger, identity string) (*types.JobPosting, bool) {
	if err := schemas.ValidateJobPosting(data); err != nil {
		logger.Printf("[cache] ignoring corrupt entry for %s: %v", identity, err)
		return nil, false
	}
	posting, err := types.FromJSON(data)
	if err != nil {
		logger.Printf("[cache] ignoring corrupt entry for %s: %v", identity, err)
		return nil, false
	}
	return posting, true
}

func encode(posting *types.JobPosting) ([]byte, error) {
	if posting == nil {
		return nil, &StoreError{Message: "cannot store a nil posting"}
	}
	data, err := posting.ToJSON()
	if err != nil {
		return nil, &StoreError{Message: "failed to encode posting", Cause: err}
	}
	return data, nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// MemoryStore keeps postings in process memory. Entries are stored encoded so
// callers never share mutable state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, identity string) (*types.JobPosting, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	data, ok := m.entries[Key(identity)]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	posting, err := types.FromJSON(data)
	if err != nil {
		return nil, false, nil
	}
	return posting, true, nil
}

func (m *MemoryStore) Put(ctx context.Context, identity string, posting *types.JobPosting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(posting)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[Key(identity)] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, identity string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := Key(identity)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

func (m *MemoryStore) Clear(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = make(map[string][]byte)
	return n, nil
}

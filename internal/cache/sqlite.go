package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/job-parser/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS parsed_postings (
	key        TEXT PRIMARY KEY,
	identity   TEXT NOT NULL,
	content    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteStore keeps postings in a single SQLite table.
type SQLiteStore struct {
	pool   *sql.DB
	logger *log.Logger
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &StoreError{Message: "failed to create database directory", Cause: err}
		}
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StoreError{Message: "failed to open sqlite database", Cause: err}
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	if _, err := pool.ExecContext(ctx, sqliteSchema); err != nil {
		_ = pool.Close()
		return nil, &StoreError{Message: "failed to create parsed_postings table", Cause: err}
	}

	return &SQLiteStore{pool: pool, logger: logger}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, identity string) (*types.JobPosting, bool, error) {
	var content string
	err := s.pool.QueryRowContext(ctx,
		`SELECT content FROM parsed_postings WHERE key = ?`, Key(identity),
	).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, &StoreError{Message: "failed to read entry", Cause: err}
	}

	posting, ok := decode([]byte(content), s.logger, identity)
	return posting, ok, nil
}

func (s *SQLiteStore) Put(ctx context.Context, identity string, posting *types.JobPosting) error {
	data, err := encode(posting)
	if err != nil {
		return err
	}

	_, err = s.pool.ExecContext(ctx,
		`INSERT OR REPLACE INTO parsed_postings (key, identity, content, updated_at) VALUES (?, ?, ?, ?)`,
		Key(identity), identity, string(data), time.Now().UTC(),
	)
	if err != nil {
		return &StoreError{Message: "failed to write entry", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, identity string) (bool, error) {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM parsed_postings WHERE key = ?`, Key(identity))
	if err != nil {
		return false, &StoreError{Message: "failed to delete entry", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &StoreError{Message: "failed to delete entry", Cause: err}
	}
	return n > 0, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM parsed_postings`)
	if err != nil {
		return 0, &StoreError{Message: "failed to clear entries", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StoreError{Message: "failed to clear entries", Cause: err}
	}
	return int(n), nil
}

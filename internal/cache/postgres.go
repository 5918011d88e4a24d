package cache

import (
	"context"
	"log"

	"github.com/jonathan/job-parser/internal/db"
	"github.com/jonathan/job-parser/internal/types"
)

// PostgresStore keeps postings in the parsed_postings table.
type PostgresStore struct {
	db     *db.DB
	logger *log.Logger
}

// OpenPostgres connects to databaseURL and makes sure the table exists.
func OpenPostgres(ctx context.Context, databaseURL string, logger *log.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = discardLogger()
	}
	conn, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, &StoreError{Message: "failed to open postgres cache", Cause: err}
	}
	if err := conn.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, &StoreError{Message: "failed to prepare postgres cache", Cause: err}
	}
	return &PostgresStore{db: conn, logger: logger}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, identity string) (*types.JobPosting, bool, error) {
	row, err := s.db.GetParsedPosting(ctx, Key(identity))
	if err != nil {
		return nil, false, &StoreError{Message: "failed to read entry", Cause: err}
	}
	if row == nil {
		return nil, false, nil
	}
	posting, ok := decode(row.Content, s.logger, identity)
	return posting, ok, nil
}

func (s *PostgresStore) Put(ctx context.Context, identity string, posting *types.JobPosting) error {
	data, err := encode(posting)
	if err != nil {
		return err
	}
	err = s.db.UpsertParsedPosting(ctx, &db.ParsedPostingInput{
		Key:      Key(identity),
		Identity: identity,
		Content:  data,
	})
	if err != nil {
		return &StoreError{Message: "failed to write entry", Cause: err}
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, identity string) (bool, error) {
	removed, err := s.db.DeleteParsedPosting(ctx, Key(identity))
	if err != nil {
		return false, &StoreError{Message: "failed to delete entry", Cause: err}
	}
	return removed, nil
}

func (s *PostgresStore) Clear(ctx context.Context) (int, error) {
	n, err := s.db.ClearParsedPostings(ctx)
	if err != nil {
		return 0, &StoreError{Message: "failed to clear entries", Cause: err}
	}
	return int(n), nil
}

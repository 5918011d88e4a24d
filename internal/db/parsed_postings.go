package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Parsed Posting Methods
// -----------------------------------------------------------------------------

// GetParsedPosting retrieves a parse result by key, or nil if absent
func (db *DB) GetParsedPosting(ctx context.Context, key string) (*ParsedPosting, error) {
	var p ParsedPosting
	err := db.pool.QueryRow(ctx,
		`SELECT key, identity, content, created_at, updated_at
		 FROM parsed_postings WHERE key = $1`,
		key,
	).Scan(&p.Key, &p.Identity, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parsed posting: %w", err)
	}
	return &p, nil
}

// UpsertParsedPosting creates or replaces a parse result
func (db *DB) UpsertParsedPosting(ctx context.Context, input *ParsedPostingInput) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO parsed_postings (key, identity, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET
		     identity = EXCLUDED.identity,
		     content = EXCLUDED.content,
		     updated_at = NOW()`,
		input.Key, input.Identity, input.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert parsed posting: %w", err)
	}
	return nil
}

// DeleteParsedPosting removes a parse result and reports whether it existed
func (db *DB) DeleteParsedPosting(ctx context.Context, key string) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM parsed_postings WHERE key = $1`, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete parsed posting: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ClearParsedPostings removes every parse result and returns the count
func (db *DB) ClearParsedPostings(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM parsed_postings`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear parsed postings: %w", err)
	}
	return result.RowsAffected(), nil
}

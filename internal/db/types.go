package db

import "time"

// ParsedPosting is a stored parse result
type ParsedPosting struct {
	Key       string    `json:"key"`
	Identity  string    `json:"identity"`
	Content   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParsedPostingInput is the data needed to upsert a parse result
type ParsedPostingInput struct {
	Key      string
	Identity string
	Content  []byte
}

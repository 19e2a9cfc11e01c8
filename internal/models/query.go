package models

import "fmt"

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// SearchQuery is a full-text search request over posts.
type SearchQuery struct {
	Query    string `json:"query"`
	Limit    int    `json:"limit,omitempty"`
	Category string `json:"category,omitempty"` // keep only posts in this category
}

// Validate ensures the query is non-empty and clamps Limit into [1, maxLimit],
// using defaultLimit when unset. Zero bounds fall back to the package defaults.
func (q *SearchQuery) Validate(defaultLimit, maxLimit int) error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxSearchLimit
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return nil
}

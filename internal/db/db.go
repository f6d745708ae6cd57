// Package db defines the backing-store facade consumed by the repositories.
// The store is an opaque search-capable document database: it accepts a
// compound query and returns scored documents plus a total match count.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers use the narrow sub-interfaces (ISP).
type Store interface {
	Pinger
	Searcher
	SearchIndexStore
	Close(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes compound search queries. A single call returns both the
// limited ranked match set and the total count of all matches in one round
// trip, never two.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
}

// SearchIndexStore provides search index lifecycle operations.
// Create-if-absent semantics are the caller's responsibility.
type SearchIndexStore interface {
	ListSearchIndexes(ctx context.Context, collection string) ([]string, error)
	CreateSearchIndex(ctx context.Context, collection, name string, definition any) error
}

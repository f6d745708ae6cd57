package db

import "go.mongodb.org/mongo-driver/bson"

// SearchQuery is a compound search query against one collection's index.
// Filter clauses must match without contributing to the score; Should
// clauses are scored, with at least MinimumShouldMatch of them required.
type SearchQuery struct {
	Collection string
	Index      string

	Filter             []bson.M
	Should             []bson.M
	MinimumShouldMatch int

	// Limit caps the returned entries. The reported Total ignores it.
	Limit int
	// ReturnFields projects the result documents; empty returns whole docs.
	ReturnFields []string
	// HighlightPaths requests highlight spans for the given paths.
	HighlightPaths []string
}

// SearchResult is the output of one search round trip.
type SearchResult struct {
	// Total counts all matching documents, ignoring the query limit.
	Total int64
	// Entries are engine-ranked, descending by score.
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Doc holds plain Go values (nested
// maps and slices) with object ids hex-formatted; engine metadata fields
// are stripped into Score and Highlights.
type SearchEntry struct {
	Doc        map[string]any
	Score      float64
	Highlights []Highlight
}

// Highlight is one highlighted span from the engine.
type Highlight struct {
	Path  string
	Score float64
	Texts []HighlightText
}

// HighlightText is one fragment of a highlighted span.
type HighlightText struct {
	Value string
	Type  string // "hit" or "text"
}

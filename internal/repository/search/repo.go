// Package search executes one collection's compound search query against the
// backing store: query construction, the single results+count round trip,
// and conversion of raw hits into domain matches.
package search

import (
	"context"
	"fmt"

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/db"
	"github.com/interactly/searchd/internal/domain"
)

// store is the consumer interface for search execution (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// indexResolver serves cached index metadata resolved at startup.
type indexResolver interface {
	IndexName(collection string) (string, bool)
}

// Repo implements usecase/search.Repository for one backing store.
type Repo struct {
	store   store
	indexes indexResolver
	catalog *catalog.Catalog
}

// New creates a search repository.
func New(s store, indexes indexResolver, cat *catalog.Catalog) *Repo {
	return &Repo{store: s, indexes: indexes, catalog: cat}
}

// Search runs one collection's compound query and returns its engine-ranked
// matches plus the total count of all matches ignoring the limit. Scores are
// taken verbatim from the engine; no recomputation or normalization happens
// here or anywhere above.
//
// An empty query returns zero matches without contacting the store.
func (r *Repo) Search(
	ctx context.Context, collection, queryText, teamID string, limit int,
) ([]domain.Match, int64, error) {
	col, ok := r.catalog.Collection(collection)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}

	indexName, ok := r.indexes.IndexName(collection)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrIndexNotResolved, collection)
	}

	q, err := buildQuery(col, indexName, queryText, teamID)
	if err != nil {
		return nil, 0, fmt.Errorf("build query %s: %w", collection, err)
	}
	if q == nil {
		// Empty query: designed no-match, no round trip.
		return nil, 0, nil
	}

	q.Collection = collection
	q.Limit = limit

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search %s: %w", collection, err)
	}

	return toMatches(sr), sr.Total, nil
}

func toMatches(sr *db.SearchResult) []domain.Match {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	matches := make([]domain.Match, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		matches = append(matches, domain.Match{
			Doc:        e.Doc,
			Score:      e.Score,
			Highlights: toHighlights(e.Highlights),
		})
	}
	return matches
}

func toHighlights(hs []db.Highlight) []domain.Highlight {
	if len(hs) == 0 {
		return nil
	}

	out := make([]domain.Highlight, 0, len(hs))
	for _, h := range hs {
		texts := make([]domain.HighlightText, 0, len(h.Texts))
		for _, t := range h.Texts {
			texts = append(texts, domain.HighlightText{Value: t.Value, Type: t.Type})
		}
		out = append(out, domain.Highlight{Path: h.Path, Score: h.Score, Texts: texts})
	}
	return out
}

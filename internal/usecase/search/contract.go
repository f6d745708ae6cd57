package search

import (
	"context"

	"github.com/interactly/searchd/internal/domain"
)

// Repository defines the per-collection search execution contract.
type Repository interface {
	// Search returns one collection's engine-ranked matches and the total
	// count of all matches ignoring the limit, in a single store round trip.
	Search(ctx context.Context, collection, query, teamID string, limit int) ([]domain.Match, int64, error)
}

// Package search orchestrates the cross-collection fan-out: category
// resolution, concurrent per-collection execution, global merge and ranking,
// and formatting of the surviving documents.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/domain"
	"github.com/interactly/searchd/internal/metrics"
)

// Service aggregates search results across all requested categories.
type Service struct {
	repo            Repository
	catalog         *catalog.Catalog
	logger          *zap.Logger
	categoryTimeout time.Duration
}

// New creates a search aggregation service.
func New(repo Repository, cat *catalog.Catalog, logger *zap.Logger) *Service {
	return &Service{repo: repo, catalog: cat, logger: logger}
}

// WithCategoryTimeout bounds each per-collection round trip so one slow
// collection cannot stall the join barrier. 0 disables the bound.
func (s *Service) WithCategoryTimeout(d time.Duration) *Service {
	s.categoryTimeout = d
	return s
}

// categoryOutcome is one collection's fan-out result, held at its dispatch
// position so merge order never depends on completion order.
type categoryOutcome struct {
	matches []domain.Match
	total   int64
	err     error
}

// Search fans the query out to every resolved category concurrently, joins,
// then merges into one globally ranked, limit-truncated list.
//
// Unknown frontend categories are dropped, not errors. A single collection's
// store failure is logged and counted but never aborts its siblings; the one
// request-fatal error is team id coercion, which cancels the remaining tasks.
func (s *Service) Search(ctx context.Context, req domain.Request) (domain.Response, error) {
	start := time.Now()

	limit := req.Limit
	if limit == 0 {
		limit = domain.DefaultLimit
	}
	if limit < 1 || limit > domain.MaxLimit {
		return domain.Response{}, fmt.Errorf("%w: got %d", domain.ErrInvalidLimit, req.Limit)
	}

	backends, searched := s.resolveCategories(req.Categories)

	outcomes := make([]categoryOutcome, len(backends))
	g, gctx := errgroup.WithContext(ctx)
	for i, collection := range backends {
		i, collection := i, collection
		g.Go(func() error {
			cctx := gctx
			if s.categoryTimeout > 0 {
				var cancel context.CancelFunc
				cctx, cancel = context.WithTimeout(gctx, s.categoryTimeout)
				defer cancel()
			}

			matches, total, err := s.repo.Search(cctx, collection, req.Query, req.TeamID, limit)
			if err != nil {
				if errors.Is(err, domain.ErrTeamIDCoercion) {
					// Request-fatal: a team filter that fails open is a
					// security defect, so this aborts the whole request.
					return err
				}
				outcomes[i] = categoryOutcome{err: err}
				return nil
			}
			outcomes[i] = categoryOutcome{matches: matches, total: total}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Response{}, err
	}

	results, total := s.merge(backends, outcomes, limit)

	elapsed := time.Since(start)
	metrics.SearchDuration.Observe(elapsed.Seconds())

	return domain.Response{
		TeamID:             req.TeamID,
		Query:              req.Query,
		Results:            results,
		Total:              total,
		CategoriesSearched: searched,
		SearchTimeMS:       float64(elapsed) / float64(time.Millisecond),
	}, nil
}

// resolveCategories maps requested frontend names to backend collections,
// deduplicating while preserving request order. Empty input means all
// registered categories. Unknown names are logged and dropped; the searched
// list only reflects what actually resolved.
func (s *Service) resolveCategories(frontends []string) (backends, searched []string) {
	if len(frontends) == 0 {
		frontends = s.catalog.Frontends()
	}

	seen := make(map[string]bool, len(frontends))
	for _, f := range frontends {
		b, ok := s.catalog.ToBackend(f)
		if !ok {
			s.logger.Warn("unknown search category requested, skipping", zap.String("category", f))
			continue
		}
		if seen[b] {
			continue
		}
		seen[b] = true
		backends = append(backends, b)
		searched = append(searched, f)
	}

	return backends, searched
}

// rankedMatch tags a match with its source collection for formatting.
type rankedMatch struct {
	collection string
	match      domain.Match
}

// merge concatenates all collections' matches in dispatch order, sorts by
// score descending with a stable sort (ties keep dispatch/insertion order,
// so identical inputs always produce identical output), truncates once
// globally, and formats the survivors. Total sums the per-collection counts
// before truncation.
func (s *Service) merge(backends []string, outcomes []categoryOutcome, limit int) ([]domain.Result, int64) {
	var all []rankedMatch
	var total int64
	for i, o := range outcomes {
		if o.err != nil {
			s.logger.Error("collection search failed, excluding from results",
				zap.String("collection", backends[i]),
				zap.Error(o.err),
			)
			metrics.SearchCategoryFailures.WithLabelValues(backends[i]).Inc()
			continue
		}
		total += o.total
		for _, m := range o.matches {
			all = append(all, rankedMatch{collection: backends[i], match: m})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].match.Score > all[j].match.Score
	})
	if len(all) > limit {
		all = all[:limit]
	}

	results := make([]domain.Result, 0, len(all))
	for _, rm := range all {
		col, ok := s.catalog.Collection(rm.collection)
		if !ok {
			continue
		}
		results = append(results, formatResult(rm.match, col, s.catalog.ToFrontend(rm.collection)))
	}

	return results, total
}

// Categories returns all registered frontend category names.
func (s *Service) Categories() []string {
	return s.catalog.Frontends()
}

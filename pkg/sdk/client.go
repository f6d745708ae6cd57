package searchd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/db"
	dbMongo "github.com/interactly/searchd/internal/db/mongo"
	"github.com/interactly/searchd/internal/domain"
	indexrepo "github.com/interactly/searchd/internal/repository/index"
	searchrepo "github.com/interactly/searchd/internal/repository/search"
	healthuc "github.com/interactly/searchd/internal/usecase/health"
	searchuc "github.com/interactly/searchd/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Public request/response types. The client serves the same shapes as the
// HTTP API.
type (
	// Request is a search request.
	Request = domain.Request
	// Response is the aggregated search response.
	Response = domain.Response
	// Result is one standardized search result.
	Result = domain.Result
	// Highlight is one highlighted span.
	Highlight = domain.Highlight
)

// Sentinel errors surfaced by Search.
var (
	// ErrTeamIDCoercion means the team id could not coerce to a collection's
	// configured filter type.
	ErrTeamIDCoercion = domain.ErrTeamIDCoercion
	// ErrInvalidLimit means the requested limit is out of range.
	ErrInvalidLimit = domain.ErrInvalidLimit
)

// Internal interfaces for test substitution.
type searchUseCase interface {
	Search(ctx context.Context, req domain.Request) (domain.Response, error)
	Categories() []string
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the searchd embedded client entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database. The provided context is
// used for the initial readiness check and index provisioning. Search indexes
// that are missing get created; New fails only when no enabled index could be
// provisioned at all.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.uri == "" {
		return nil, errors.New("searchd: database uri required (use WithMongo)")
	}
	if cfg.database == "" {
		return nil, errors.New("searchd: database name required (use WithMongo)")
	}
	if cfg.catalog == nil {
		cfg.catalog = catalog.Default()
	}

	store, err := dbMongo.NewStore(ctx, dbMongo.Config{
		URI:      cfg.uri,
		Database: cfg.database,
	})
	if err != nil {
		return nil, fmt.Errorf("searchd: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("searchd: database not ready: %w", err)
	}

	return wireClient(ctx, store, cfg)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	indexes := indexrepo.New(store, cfg.catalog)
	if err := provisionIndexes(ctx, indexes, logger); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	searchRepo := searchrepo.New(store, indexes, cfg.catalog)
	searchSvc := searchuc.New(searchRepo, cfg.catalog, logger)
	if cfg.categoryTimeout > 0 {
		searchSvc = searchSvc.WithCategoryTimeout(cfg.categoryTimeout)
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store),
		obs:       obs,
	}, nil
}

// provisionIndexes ensures all enabled search indexes exist. Individual
// failures are logged; only a total failure aborts.
func provisionIndexes(ctx context.Context, indexes *indexrepo.Manager, logger *zap.Logger) error {
	attempted, succeeded := 0, 0
	for _, o := range indexes.EnsureAll(ctx) {
		switch o.Status {
		case indexrepo.StatusCreated, indexrepo.StatusExists:
			attempted++
			succeeded++
		case indexrepo.StatusFailed:
			attempted++
			logger.Warn("search index provisioning failed",
				zap.String("collection", o.Collection),
				zap.String("index", o.Index),
				zap.Error(o.Err),
			)
		}
	}
	if attempted > 0 && succeeded == 0 {
		return errors.New("searchd: no search index could be provisioned")
	}
	return nil
}

// Search runs a cross-collection search and returns the globally ranked
// results. See domain.Request for field semantics.
func (c *Client) Search(ctx context.Context, req Request) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err = c.searchSvc.Search(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	return resp, nil
}

// Categories returns all registered frontend category names.
func (c *Client) Categories() []string {
	return c.searchSvc.Categories()
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Healthy reports whether all backing components pass their health checks.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.healthSvc.Check(ctx).Status == healthuc.Healthy
}

// Close releases all resources.
func (c *Client) Close(ctx context.Context) error {
	if c.store != nil {
		return c.store.Close(ctx)
	}
	return nil
}

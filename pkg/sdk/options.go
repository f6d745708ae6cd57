package searchd

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/interactly/searchd/internal/catalog"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	uri      string
	database string

	catalog         *catalog.Catalog
	categoryTimeout time.Duration

	readinessTimeout time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithMongo configures the MongoDB connection. The URI must be a mongodb://
// or mongodb+srv:// URI; search indexes require an Atlas deployment.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.uri = uri
		c.database = database
	})
}

// WithCatalog replaces the built-in search catalog. Use catalog.New to build
// a validated catalog for a custom collection set.
func WithCatalog(cat *catalog.Catalog) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = cat
	})
}

// WithCategoryTimeout bounds each per-collection round trip during the search
// fan-out. 0 disables the bound (default).
func WithCategoryTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.categoryTimeout = d
	})
}

// WithReadinessTimeout bounds the initial connectivity check in New.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

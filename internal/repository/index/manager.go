// Package index provisions search indexes at startup and caches the resolved
// index metadata for the process lifetime, so no request ever issues an index
// metadata lookup.
package index

import (
	"context"
	"fmt"

	"github.com/interactly/searchd/internal/catalog"
)

// store is the consumer interface for index provisioning (ISP).
type store interface {
	ListSearchIndexes(ctx context.Context, collection string) ([]string, error)
	CreateSearchIndex(ctx context.Context, collection, name string, definition any) error
}

// Status is the per-collection provisioning outcome.
type Status string

const (
	// StatusCreated means the index was absent and has been created.
	StatusCreated Status = "created"
	// StatusExists means an index of that name was already present and was
	// left untouched. Mapping changes require index recreation; there is no
	// diffing or migration of field additions.
	StatusExists Status = "exists"
	// StatusSkipped means the definition is disabled.
	StatusSkipped Status = "skipped"
	// StatusFailed means provisioning this collection's index failed.
	// Failures are independent: siblings are still attempted.
	StatusFailed Status = "failed"
)

// Outcome reports one collection's provisioning result.
type Outcome struct {
	Collection string
	Index      string
	Status     Status
	Err        error
}

// Manager ensures configured search indexes exist and caches index names.
// EnsureAll runs once at startup; after that the Manager is read-only and
// safe for concurrent readers without locking.
type Manager struct {
	store   store
	catalog *catalog.Catalog
	names   map[string]string // backend collection -> resolved index name
}

// New creates an index manager over the given store and catalog.
func New(s store, cat *catalog.Catalog) *Manager {
	return &Manager{store: s, catalog: cat, names: make(map[string]string)}
}

// EnsureAll checks every configured collection's search index, creating the
// missing ones. One collection's failure never prevents the others from being
// attempted; each gets its own Outcome. Outcomes follow catalog registration
// order.
func (m *Manager) EnsureAll(ctx context.Context) []Outcome {
	backends := m.catalog.Backends()
	outcomes := make([]Outcome, 0, len(backends))

	for _, collection := range backends {
		outcomes = append(outcomes, m.ensure(ctx, collection))
	}

	return outcomes
}

func (m *Manager) ensure(ctx context.Context, collection string) Outcome {
	def, ok := m.catalog.Index(collection)
	if !ok || !def.Enabled {
		return Outcome{Collection: collection, Index: def.Name, Status: StatusSkipped}
	}

	// The resolved name is cached up front: a collection whose provisioning
	// failed may still be queryable if the index exists out-of-band, and
	// whether to serve it degraded is a deployment decision, not ours.
	m.names[collection] = def.Name

	existing, err := m.store.ListSearchIndexes(ctx, collection)
	if err != nil {
		return Outcome{
			Collection: collection,
			Index:      def.Name,
			Status:     StatusFailed,
			Err:        fmt.Errorf("list search indexes: %w", err),
		}
	}

	for _, name := range existing {
		if name == def.Name {
			return Outcome{Collection: collection, Index: def.Name, Status: StatusExists}
		}
	}

	if err := m.store.CreateSearchIndex(ctx, collection, def.Name, buildDefinition(def)); err != nil {
		return Outcome{
			Collection: collection,
			Index:      def.Name,
			Status:     StatusFailed,
			Err:        fmt.Errorf("create search index %s: %w", def.Name, err),
		}
	}

	return Outcome{Collection: collection, Index: def.Name, Status: StatusCreated}
}

// IndexName returns the cached index name for a collection. False means the
// collection has no enabled index definition.
func (m *Manager) IndexName(collection string) (string, bool) {
	name, ok := m.names[collection]
	return name, ok
}

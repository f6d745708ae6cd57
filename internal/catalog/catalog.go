// Package catalog holds the process-wide search configuration: per-collection
// searchable and returnable fields, search index definitions, and the
// frontend/backend category mapping. A Catalog is built once at startup,
// validated, and read-only afterwards; tests substitute alternate catalogs
// without process restarts.
package catalog

import (
	"fmt"
	"strings"

	"github.com/interactly/searchd/internal/domain"
)

// TeamIDType declares the storage type of a collection's team filter field.
type TeamIDType string

const (
	// TeamIDString stores team ids as plain strings.
	TeamIDString TeamIDType = "string"
	// TeamIDObjectID stores team ids as BSON object ids; request team ids
	// must coerce to a valid object id or the request fails.
	TeamIDObjectID TeamIDType = "objectId"
)

// Collection is one backend collection's search configuration.
type Collection struct {
	// Searchable lists the scored search strategies, in clause order.
	Searchable []Field
	// Returnable lists the dotted field paths copied into results.
	Returnable []string
	// TeamIDField is the non-scoring team isolation filter field.
	TeamIDField string
	// TeamIDType declares how request team ids coerce for the filter.
	// Empty means TeamIDString.
	TeamIDType TeamIDType
	// DisplayNameField is the dotted path populating the standardized
	// "name" output field.
	DisplayNameField string
}

// Mapping is one frontend category name bound to a backend collection.
type Mapping struct {
	Frontend string
	Backend  string
}

// Catalog is the immutable registry of collections, indexes, and the
// bidirectional category mapping.
type Catalog struct {
	collections map[string]Collection
	indexes     map[string]IndexDefinition
	toBackend   map[string]string
	toFrontend  map[string]string
	frontends   []string // registration order
	backends    []string // registration order
}

// New builds and validates a catalog. Any invariant violation is returned
// wrapped in domain.ErrInvalidCatalog and must abort startup.
func New(collections map[string]Collection, indexes map[string]IndexDefinition, mappings []Mapping) (*Catalog, error) {
	c := &Catalog{
		collections: collections,
		indexes:     indexes,
		toBackend:   make(map[string]string, len(mappings)),
		toFrontend:  make(map[string]string, len(mappings)),
		frontends:   make([]string, 0, len(mappings)),
		backends:    make([]string, 0, len(mappings)),
	}

	for _, m := range mappings {
		if m.Frontend == "" || m.Backend == "" {
			return nil, catalogErrorf("category mapping %q -> %q has an empty side", m.Frontend, m.Backend)
		}
		if _, dup := c.toBackend[m.Frontend]; dup {
			return nil, catalogErrorf("frontend category %q mapped twice", m.Frontend)
		}
		if _, dup := c.toFrontend[m.Backend]; dup {
			return nil, catalogErrorf("backend collection %q mapped twice", m.Backend)
		}
		if _, ok := collections[m.Backend]; !ok {
			return nil, catalogErrorf("backend collection %q has no search config", m.Backend)
		}
		c.toBackend[m.Frontend] = m.Backend
		c.toFrontend[m.Backend] = m.Frontend
		c.frontends = append(c.frontends, m.Frontend)
		c.backends = append(c.backends, m.Backend)
	}

	for name, col := range collections {
		if err := validateCollection(name, col); err != nil {
			return nil, err
		}
		if def, ok := indexes[name]; ok {
			if err := def.validate(name); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

// MustNew builds a catalog or panics. For static catalogs defined in code,
// where a violation is a programming error.
func MustNew(collections map[string]Collection, indexes map[string]IndexDefinition, mappings []Mapping) *Catalog {
	c, err := New(collections, indexes, mappings)
	if err != nil {
		panic(err)
	}
	return c
}

func validateCollection(name string, col Collection) error {
	if col.TeamIDField == "" {
		return catalogErrorf("collection %q: team id field is required", name)
	}
	switch col.TeamIDType {
	case "", TeamIDString, TeamIDObjectID:
	default:
		return catalogErrorf("collection %q: unknown team id type %q", name, col.TeamIDType)
	}
	for _, f := range col.Searchable {
		if f.Path == "" {
			return catalogErrorf("collection %q: searchable field with empty path", name)
		}
		if !f.Type.Valid() {
			return catalogErrorf("collection %q: field %q has unknown type %q", name, f.Path, f.Type)
		}
		if !f.Type.Searchable() && f.Path != col.TeamIDField {
			return catalogErrorf("collection %q: field %q type %q cannot back a scored clause", name, f.Path, f.Type)
		}
		if f.Boost < 0 {
			return catalogErrorf("collection %q: field %q has negative boost", name, f.Path)
		}
		if f.Fuzzy != nil && f.Fuzzy.MaxEdits <= 0 {
			return catalogErrorf("collection %q: field %q fuzzy maxEdits must be positive", name, f.Path)
		}
	}
	if col.DisplayNameField != "" && !pathCovered(col.DisplayNameField, col.Returnable) {
		return catalogErrorf("collection %q: display name field %q not covered by returnable fields",
			name, col.DisplayNameField)
	}
	return nil
}

// pathCovered reports whether a dotted path is reachable through the
// returnable field list, directly or via a nesting prefix ("function"
// covers "function.name").
func pathCovered(path string, returnable []string) bool {
	for _, r := range returnable {
		if r == path || strings.HasPrefix(path, r+".") {
			return true
		}
	}
	return false
}

// Collection returns the search config for a backend collection.
func (c *Catalog) Collection(backend string) (Collection, bool) {
	col, ok := c.collections[backend]
	return col, ok
}

// Index returns the index definition for a backend collection.
func (c *Catalog) Index(backend string) (IndexDefinition, bool) {
	def, ok := c.indexes[backend]
	return def, ok
}

// ToBackend maps a frontend category name to its backend collection.
func (c *Catalog) ToBackend(frontend string) (string, bool) {
	b, ok := c.toBackend[frontend]
	return b, ok
}

// ToFrontend maps a backend collection back to its frontend category name.
// Unmapped collections fall back to their own name.
func (c *Catalog) ToFrontend(backend string) string {
	if f, ok := c.toFrontend[backend]; ok {
		return f
	}
	return backend
}

// Frontends returns all registered frontend category names in registration order.
func (c *Catalog) Frontends() []string {
	out := make([]string, len(c.frontends))
	copy(out, c.frontends)
	return out
}

// Backends returns all registered backend collection names in registration order.
func (c *Catalog) Backends() []string {
	out := make([]string, len(c.backends))
	copy(out, c.backends)
	return out
}

func catalogErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

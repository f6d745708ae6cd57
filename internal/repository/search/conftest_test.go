package search

import (
	"context"
	"testing"

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	calls    int
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// mockIndexes resolves index names from a fixed map.
type mockIndexes struct {
	names map[string]string
}

func (m *mockIndexes) IndexName(collection string) (string, bool) {
	name, ok := m.names[collection]
	return name, ok
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		map[string]catalog.Collection{
			"bots": {
				Searchable: []catalog.Field{
					{
						Path:  "name",
						Type:  catalog.FieldAutocomplete,
						Fuzzy: &catalog.Fuzzy{MaxEdits: 1, PrefixLength: 1, MaxExpansions: 50},
					},
					{Path: "name", Type: catalog.FieldString, Boost: 2.0},
				},
				Returnable:       []string{"_id", "name", "teamId"},
				TeamIDField:      "teamId",
				TeamIDType:       catalog.TeamIDString,
				DisplayNameField: "name",
			},
			"flows": {
				Searchable:       []catalog.Field{{Path: "title", Type: catalog.FieldString}},
				Returnable:       []string{"_id", "title", "teamId"},
				TeamIDField:      "teamId",
				TeamIDType:       catalog.TeamIDObjectID,
				DisplayNameField: "title",
			},
		},
		nil,
		[]catalog.Mapping{
			{Frontend: "assistant", Backend: "bots"},
			{Frontend: "workflow", Backend: "flows"},
		},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	idx := &mockIndexes{names: map[string]string{
		"bots":  "bots_search_index",
		"flows": "flows_search_index",
	}}
	return New(ms, idx, testCatalog(t)), ms
}

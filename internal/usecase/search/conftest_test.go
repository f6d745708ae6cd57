package search

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/domain"
)

// canned is one collection's scripted repository behavior.
type canned struct {
	matches []domain.Match
	total   int64
	err     error
}

// mockRepo serves scripted per-collection results and records which
// collections were dispatched. Safe under the service's concurrent fan-out.
type mockRepo struct {
	mu      sync.Mutex
	byColl  map[string]canned
	queried []string
}

func (m *mockRepo) Search(_ context.Context, collection, _, _ string, _ int) ([]domain.Match, int64, error) {
	m.mu.Lock()
	m.queried = append(m.queried, collection)
	m.mu.Unlock()

	c := m.byColl[collection]
	return c.matches, c.total, c.err
}

func (m *mockRepo) dispatched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queried))
	copy(out, m.queried)
	return out
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		map[string]catalog.Collection{
			"bots": {
				Searchable:       []catalog.Field{{Path: "name", Type: catalog.FieldAutocomplete}},
				Returnable:       []string{"_id", "name", "teamId"},
				TeamIDField:      "teamId",
				DisplayNameField: "name",
			},
			"flows": {
				Searchable:       []catalog.Field{{Path: "title", Type: catalog.FieldString}},
				Returnable:       []string{"_id", "title"},
				TeamIDField:      "teamId",
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

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	return New(repo, testCatalog(t), zap.NewNop())
}

func botMatch(id, name string, score float64) domain.Match {
	return domain.Match{
		Doc:   map[string]any{"_id": id, "name": name, "teamId": "team-1"},
		Score: score,
	}
}

func flowMatch(id, title string, score float64) domain.Match {
	return domain.Match{
		Doc:   map[string]any{"_id": id, "title": title},
		Score: score,
	}
}

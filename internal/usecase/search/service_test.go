package search

import (
	"context"
	"errors"
	"testing"

	"github.com/interactly/searchd/internal/domain"
)

func TestSearch_MergesAcrossCategoriesByScore(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{
		"bots": {
			matches: []domain.Match{botMatch("b1", "Echo Bot", 4.0), botMatch("b2", "Relay Bot", 1.5)},
			total:   2,
		},
		"flows": {
			matches: []domain.Match{flowMatch("f1", "Echo Flow", 7.2)},
			total:   1,
		},
	}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{TeamID: "team-1", Query: "echo"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	for i := 0; i < len(resp.Results)-1; i++ {
		if resp.Results[i].Score < resp.Results[i+1].Score {
			t.Fatalf("results not sorted by score at %d: %.2f < %.2f",
				i, resp.Results[i].Score, resp.Results[i+1].Score)
		}
	}
	if resp.Results[0].ID != "f1" || resp.Results[0].Category != "workflow" {
		t.Errorf("top result should be the highest-scoring flow, got %+v", resp.Results[0])
	}
	if resp.Total != 3 {
		t.Errorf("expected total 3, got %d", resp.Total)
	}
	if len(resp.CategoriesSearched) != 2 ||
		resp.CategoriesSearched[0] != "assistant" || resp.CategoriesSearched[1] != "workflow" {
		t.Errorf("unexpected categories searched: %v", resp.CategoriesSearched)
	}
}

func TestSearch_TiedScoresKeepDispatchOrder(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{
		"bots":  {matches: []domain.Match{botMatch("b1", "Alpha", 2.0)}, total: 1},
		"flows": {matches: []domain.Match{flowMatch("f1", "Alpha", 2.0)}, total: 1},
	}}
	svc := newTestService(t, repo)

	// bots is registered before flows, so its tie wins every run.
	for run := 0; run < 5; run++ {
		resp, err := svc.Search(context.Background(), domain.Request{TeamID: "team-1", Query: "alpha"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if resp.Results[0].ID != "b1" || resp.Results[1].ID != "f1" {
			t.Fatalf("run %d: tie order changed: %s, %s", run, resp.Results[0].ID, resp.Results[1].ID)
		}
	}
}

func TestSearch_LimitTruncatesButTotalDoesNot(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{
		"bots":  {matches: []domain.Match{botMatch("b1", "High", 9.0)}, total: 1},
		"flows": {matches: []domain.Match{flowMatch("f1", "Low", 3.0)}, total: 1},
	}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{TeamID: "team-1", Query: "x", Limit: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "b1" {
		t.Fatalf("expected only the 9.0 match, got %+v", resp.Results)
	}
	if resp.Total != 2 {
		t.Errorf("total counts all matches regardless of limit, got %d", resp.Total)
	}
}

func TestSearch_UnknownCategoriesDropped(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{
		TeamID:     "team-1",
		Query:      "x",
		Categories: []string{"nonsense"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results, got %d", len(resp.Results))
	}
	if len(resp.CategoriesSearched) != 0 {
		t.Errorf("expected no categories searched, got %v", resp.CategoriesSearched)
	}
	if resp.Total != 0 {
		t.Errorf("expected total 0, got %d", resp.Total)
	}
	if got := repo.dispatched(); len(got) != 0 {
		t.Errorf("repository should not be called, got %v", got)
	}
}

func TestSearch_MixedKnownAndUnknownCategories(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{
		"bots": {
			matches: []domain.Match{botMatch("b1", "Kt Assistant Bot", 5.2)},
			total:   1,
		},
	}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{
		TeamID:     "team-1",
		Query:      "Assistant",
		Categories: []string{"assistant", "nonsense"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Category != "assistant" || r.Name != "Kt Assistant Bot" || r.Score != 5.2 {
		t.Errorf("unexpected result: %+v", r)
	}
	if len(resp.CategoriesSearched) != 1 || resp.CategoriesSearched[0] != "assistant" {
		t.Errorf("unexpected categories searched: %v", resp.CategoriesSearched)
	}
}

func TestSearch_DuplicateCategoriesSearchedOnce(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{
		"bots": {matches: []domain.Match{botMatch("b1", "Echo", 1.0)}, total: 1},
	}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{
		TeamID:     "team-1",
		Query:      "echo",
		Categories: []string{"assistant", "assistant"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := repo.dispatched(); len(got) != 1 {
		t.Fatalf("expected 1 dispatch, got %v", got)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Errorf("duplicate category must not double results: total=%d results=%d",
			resp.Total, len(resp.Results))
	}
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	// An empty query never reaches the store; the repository returns
	// zero matches without error for it.
	repo := &mockRepo{byColl: map[string]canned{}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{TeamID: "team-1", Query: "   "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 0 || resp.Total != 0 {
		t.Errorf("expected empty response, got results=%d total=%d", len(resp.Results), resp.Total)
	}
	if len(resp.CategoriesSearched) != 2 {
		t.Errorf("all categories are still searched, got %v", resp.CategoriesSearched)
	}
}

func TestSearch_LimitOutOfRange(t *testing.T) {
	svc := newTestService(t, &mockRepo{})

	for _, limit := range []int{-1, domain.MaxLimit + 1} {
		_, err := svc.Search(context.Background(), domain.Request{TeamID: "t", Query: "x", Limit: limit})
		if !errors.Is(err, domain.ErrInvalidLimit) {
			t.Errorf("limit %d: expected ErrInvalidLimit, got %v", limit, err)
		}
	}
}

func TestSearch_CoercionFailureAbortsRequest(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{
		"bots":  {matches: []domain.Match{botMatch("b1", "Echo", 1.0)}, total: 1},
		"flows": {err: domain.ErrTeamIDCoercion},
	}}
	svc := newTestService(t, repo)

	_, err := svc.Search(context.Background(), domain.Request{TeamID: "not-an-object-id", Query: "x"})
	if !errors.Is(err, domain.ErrTeamIDCoercion) {
		t.Fatalf("expected ErrTeamIDCoercion, got %v", err)
	}
}

func TestSearch_CollectionFailureIsolated(t *testing.T) {
	repo := &mockRepo{byColl: map[string]canned{
		"bots":  {err: errors.New("socket closed")},
		"flows": {matches: []domain.Match{flowMatch("f1", "Echo Flow", 2.0)}, total: 1},
	}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{TeamID: "team-1", Query: "echo"})
	if err != nil {
		t.Fatalf("a single collection failure must not abort the request: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "f1" {
		t.Fatalf("expected the surviving flow result, got %+v", resp.Results)
	}
	if resp.Total != 1 {
		t.Errorf("failed collection contributes no count, got %d", resp.Total)
	}
	// Both categories were dispatched even though one failed.
	if len(resp.CategoriesSearched) != 2 {
		t.Errorf("unexpected categories searched: %v", resp.CategoriesSearched)
	}
}

func TestSearch_ResultsNeverExceedLimit(t *testing.T) {
	bots := make([]domain.Match, 30)
	for i := range bots {
		bots[i] = botMatch("b", "Bot", float64(30-i))
	}
	repo := &mockRepo{byColl: map[string]canned{
		"bots": {matches: bots, total: 30},
	}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), domain.Request{TeamID: "team-1", Query: "bot", Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(resp.Results))
	}
	if resp.Total != 30 {
		t.Errorf("expected total 30, got %d", resp.Total)
	}
}

func TestCategories(t *testing.T) {
	svc := newTestService(t, &mockRepo{})
	got := svc.Categories()
	if len(got) != 2 || got[0] != "assistant" || got[1] != "workflow" {
		t.Fatalf("unexpected categories: %v", got)
	}
}

package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/interactly/searchd/internal/db"
)

func stageValue(t *testing.T, stage bson.D, key string) any {
	t.Helper()
	if len(stage) != 1 || stage[0].Key != key {
		t.Fatalf("expected a %s stage, got %v", key, stage)
	}
	return stage[0].Value
}

func TestBuildSearchPipeline_Shape(t *testing.T) {
	q := &db.SearchQuery{
		Collection:         "bots",
		Index:              "bots_search_index",
		Filter:             []bson.M{{"equals": bson.M{"path": "teamId", "value": "team-1"}}},
		Should:             []bson.M{{"autocomplete": bson.M{"path": "name", "query": "echo"}}},
		MinimumShouldMatch: 1,
		Limit:              50,
		ReturnFields:       []string{"name", "teamId"},
		HighlightPaths:     []string{"name"},
	}

	pipeline := buildSearchPipeline(q)
	if len(pipeline) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(pipeline))
	}

	search := stageValue(t, pipeline[0], "$search").(bson.D)
	byKey := map[string]any{}
	for _, e := range search {
		byKey[e.Key] = e.Value
	}
	if byKey["index"] != "bots_search_index" {
		t.Errorf("index: %v", byKey["index"])
	}
	compound := byKey["compound"].(bson.M)
	if len(compound["filter"].([]bson.M)) != 1 {
		t.Errorf("filter clause missing: %v", compound)
	}
	if len(compound["should"].([]bson.M)) != 1 {
		t.Errorf("should clause missing: %v", compound)
	}
	if compound["minimumShouldMatch"] != 1 {
		t.Errorf("minimumShouldMatch: %v", compound["minimumShouldMatch"])
	}
	count := byKey["count"].(bson.M)
	if count["type"] != "total" {
		t.Errorf("count stage must request the exact total: %v", count)
	}
	highlight := byKey["highlight"].(bson.M)
	if paths := highlight["path"].([]string); len(paths) != 1 || paths[0] != "name" {
		t.Errorf("highlight paths: %v", highlight)
	}

	if limit := stageValue(t, pipeline[1], "$limit"); limit != 50 {
		t.Errorf("limit stage: %v", limit)
	}

	addFields := stageValue(t, pipeline[2], "$addFields").(bson.M)
	if addFields[metaTotal] != "$$SEARCH_META.count.total" {
		t.Errorf("total capture: %v", addFields[metaTotal])
	}
	if _, ok := addFields[metaScore].(bson.M); !ok {
		t.Errorf("score capture: %v", addFields[metaScore])
	}

	proj := stageValue(t, pipeline[3], "$project").(bson.M)
	for _, key := range []string{"_id", "name", "teamId", metaScore, metaHighlights, metaTotal} {
		if proj[key] != 1 {
			t.Errorf("projection missing %s: %v", key, proj)
		}
	}
}

func TestBuildSearchPipeline_NoHighlightNoProjection(t *testing.T) {
	q := &db.SearchQuery{
		Index:              "idx",
		Should:             []bson.M{{"text": bson.M{"path": "title", "query": "x"}}},
		MinimumShouldMatch: 1,
		Limit:              10,
	}

	pipeline := buildSearchPipeline(q)
	if len(pipeline) != 3 {
		t.Fatalf("expected 3 stages without return fields, got %d", len(pipeline))
	}
	search := stageValue(t, pipeline[0], "$search").(bson.D)
	for _, e := range search {
		if e.Key == "highlight" {
			t.Error("highlight stage present without highlight paths")
		}
	}
	compound := search[1].Value.(bson.M)
	if _, present := compound["filter"]; present {
		t.Error("empty filter must be omitted from the compound query")
	}
}

func TestParseEntry(t *testing.T) {
	oid := primitive.NewObjectID()
	raw := bson.M{
		"_id":          oid,
		"name":         "Echo Bot",
		metaScore:      4.5,
		metaTotal:      int32(7),
		metaHighlights: bson.A{bson.M{"path": "name", "score": 1.1, "texts": bson.A{bson.M{"value": "Echo", "type": "hit"}}}},
	}

	entry, total := parseEntry(raw)

	if total != 7 {
		t.Errorf("total: %d", total)
	}
	if entry.Score != 4.5 {
		t.Errorf("score: %f", entry.Score)
	}
	if entry.Doc["_id"] != oid.Hex() {
		t.Errorf("object id should be hex-formatted: %v", entry.Doc["_id"])
	}
	for _, meta := range []string{metaScore, metaTotal, metaHighlights} {
		if _, present := entry.Doc[meta]; present {
			t.Errorf("metadata field %s leaked into document", meta)
		}
	}
	if len(entry.Highlights) != 1 || entry.Highlights[0].Path != "name" {
		t.Fatalf("highlights: %+v", entry.Highlights)
	}
	if entry.Highlights[0].Texts[0].Type != "hit" {
		t.Errorf("highlight text: %+v", entry.Highlights[0].Texts)
	}
}

func TestParseHighlights_NonArray(t *testing.T) {
	if got := parseHighlights(nil); got != nil {
		t.Errorf("nil input: %v", got)
	}
	if got := parseHighlights("junk"); got != nil {
		t.Errorf("non-array input: %v", got)
	}
	if got := parseHighlights(bson.A{}); got != nil {
		t.Errorf("empty array input: %v", got)
	}
}

func TestNormalizeValue(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	in := bson.M{
		"id":   oid,
		"when": primitive.NewDateTimeFromTime(when),
		"nested": bson.D{
			{Key: "tags", Value: bson.A{"a", int32(2)}},
		},
	}

	out, ok := normalizeValue(in).(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", normalizeValue(in))
	}
	if out["id"] != oid.Hex() {
		t.Errorf("object id: %v", out["id"])
	}
	if got := out["when"].(time.Time); !got.Equal(when) {
		t.Errorf("datetime: %v", got)
	}
	nested, ok := out["nested"].(map[string]any)
	if !ok {
		t.Fatalf("bson.D should normalize to a map, got %T", out["nested"])
	}
	tags, ok := nested["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Fatalf("bson.A should normalize to a slice: %v", nested["tags"])
	}
}

func TestAsConversions(t *testing.T) {
	if v, ok := asFloat64(int32(3)); !ok || v != 3.0 {
		t.Errorf("asFloat64(int32): %v %v", v, ok)
	}
	if _, ok := asFloat64("nope"); ok {
		t.Error("asFloat64 should reject strings")
	}
	if v, ok := asInt64(float64(9)); !ok || v != 9 {
		t.Errorf("asInt64(float64): %v %v", v, ok)
	}
	if _, ok := asInt64(nil); ok {
		t.Error("asInt64 should reject nil")
	}
}

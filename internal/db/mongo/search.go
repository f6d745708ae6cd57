package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/interactly/searchd/internal/db"
)

// Engine metadata is projected into reserved document fields and stripped
// before the document leaves this package.
const (
	metaScore      = "__score"
	metaHighlights = "__highlights"
	metaTotal      = "__total"
)

// Search runs one $search aggregation round trip: the pipeline carries both
// the limited ranked result set and the total match count ($$SEARCH_META),
// so results and count never cost two store calls.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	cur, err := s.db.Collection(q.Collection).Aggregate(ctx, buildSearchPipeline(q))
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Collection: q.Collection, Err: err}
	}
	defer func() { _ = cur.Close(ctx) }()

	res := &db.SearchResult{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, &db.Error{Op: db.OpAggregate, Collection: q.Collection, Err: err}
		}
		entry, total := parseEntry(raw)
		if res.Total == 0 {
			res.Total = total
		}
		res.Entries = append(res.Entries, entry)
	}
	if err := cur.Err(); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Collection: q.Collection, Err: err}
	}

	return res, nil
}

// buildSearchPipeline shapes the aggregation pipeline for a compound query:
//
//	$search    compound {filter, should, minimumShouldMatch} + count + highlight
//	$limit     caps the ranked set (the count above ignores it)
//	$addFields captures searchScore, searchHighlights, and the total
//	$project   restricts to the returnable fields
func buildSearchPipeline(q *db.SearchQuery) mongo.Pipeline {
	compound := bson.M{}
	if len(q.Filter) > 0 {
		compound["filter"] = q.Filter
	}
	if len(q.Should) > 0 {
		compound["should"] = q.Should
		compound["minimumShouldMatch"] = q.MinimumShouldMatch
	}

	search := bson.D{
		{Key: "index", Value: q.Index},
		{Key: "compound", Value: compound},
		{Key: "count", Value: bson.M{"type": "total"}},
	}
	if len(q.HighlightPaths) > 0 {
		search = append(search, bson.E{Key: "highlight", Value: bson.M{"path": q.HighlightPaths}})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$search", Value: search}},
		{{Key: "$limit", Value: q.Limit}},
		{{Key: "$addFields", Value: bson.M{
			metaScore:      bson.M{"$meta": "searchScore"},
			metaHighlights: bson.M{"$meta": "searchHighlights"},
			metaTotal:      "$$SEARCH_META.count.total",
		}}},
	}

	if len(q.ReturnFields) > 0 {
		proj := bson.M{
			"_id":          1,
			metaScore:      1,
			metaHighlights: 1,
			metaTotal:      1,
		}
		for _, f := range q.ReturnFields {
			proj[f] = 1
		}
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: proj}})
	}

	return pipeline
}

// parseEntry strips the engine metadata fields from a decoded document and
// normalizes the remainder to plain Go values.
func parseEntry(raw bson.M) (db.SearchEntry, int64) {
	score, _ := asFloat64(raw[metaScore])
	total, _ := asInt64(raw[metaTotal])
	highlights := parseHighlights(raw[metaHighlights])
	delete(raw, metaScore)
	delete(raw, metaTotal)
	delete(raw, metaHighlights)

	doc, _ := normalizeValue(raw).(map[string]any)

	return db.SearchEntry{Doc: doc, Score: score, Highlights: highlights}, total
}

func parseHighlights(v any) []db.Highlight {
	arr, ok := v.(bson.A)
	if !ok || len(arr) == 0 {
		return nil
	}

	out := make([]db.Highlight, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(bson.M)
		if !ok {
			continue
		}
		h := db.Highlight{}
		h.Path, _ = m["path"].(string)
		h.Score, _ = asFloat64(m["score"])
		if texts, ok := m["texts"].(bson.A); ok {
			h.Texts = make([]db.HighlightText, 0, len(texts))
			for _, t := range texts {
				tm, ok := t.(bson.M)
				if !ok {
					continue
				}
				ht := db.HighlightText{}
				ht.Value, _ = tm["value"].(string)
				ht.Type, _ = tm["type"].(string)
				h.Texts = append(h.Texts, ht)
			}
		}
		out = append(out, h)
	}
	return out
}

// normalizeValue converts BSON container and identifier types into plain Go
// values: repositories and formatters above this package never see bson.M,
// and object ids are already hex strings when they reach the response.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = normalizeValue(vv)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = normalizeValue(vv)
		}
		return s
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	default:
		return v
	}
}

func asFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	}
	return 0, false
}

package domain

import "encoding/json"

// MatchType is attached to every search result. The backing engine is Atlas
// Search; the value is part of the public API contract.
const MatchType = "atlas_search"

// Result limit bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Request is a single search request after transport-level decoding.
type Request struct {
	TeamID string
	Query  string
	// Categories holds requested frontend category names.
	// Empty means all registered categories.
	Categories []string
	// Limit caps the merged result list. 0 means DefaultLimit.
	Limit int
}

// HighlightText is one matched or unmatched fragment of a highlighted field.
type HighlightText struct {
	Value string `json:"value"`
	Type  string `json:"type"` // "hit" or "text"
}

// Highlight is one highlighted span as returned by the engine.
type Highlight struct {
	Path  string          `json:"path"`
	Score float64         `json:"score,omitempty"`
	Texts []HighlightText `json:"texts"`
}

// Match is a transient per-collection engine hit: the raw document with its
// relevance score and optional highlight spans. Doc values are plain Go types
// (nested maps, slices, strings) with object ids already hex-formatted.
type Match struct {
	Doc        map[string]any
	Score      float64
	Highlights []Highlight
}

// Result is one standardized search result. Fields carries the collection's
// returnable fields under their original keys and nesting; the fixed keys
// (id, category, name, score, match_type, highlights) are attached on top.
type Result struct {
	ID         string
	Category   string
	Name       string // standardized display value; empty means absent
	Score      float64
	Highlights []Highlight
	Fields     map[string]any
}

// MarshalJSON flattens Fields into the top-level object alongside the fixed
// keys. Fixed keys win on collision. Name is omitted when the display-name
// path did not resolve; explicit absence beats a synthetic placeholder.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+6)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	out["category"] = r.Category
	out["score"] = r.Score
	out["match_type"] = MatchType
	if r.Name != "" {
		out["name"] = r.Name
	}
	if len(r.Highlights) > 0 {
		out["highlights"] = r.Highlights
	}
	return json.Marshal(out)
}

// Response is the aggregated search response across all searched categories.
type Response struct {
	TeamID             string   `json:"teamId"`
	Query              string   `json:"query"`
	Results            []Result `json:"results"`
	Total              int64    `json:"total"`
	CategoriesSearched []string `json:"categories_searched"`
	SearchTimeMS       float64  `json:"search_time_ms"`
}

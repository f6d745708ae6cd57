package search

import (
	"fmt"
	"strings"

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/domain"
)

// formatResult maps one raw document into the standardized result shape:
// returnable fields under their original keys and nesting, the display-name
// path surfaced additionally as "name", and the fixed id/category/score
// metadata attached on top.
func formatResult(m domain.Match, col catalog.Collection, frontendCategory string) domain.Result {
	fields := make(map[string]any, len(col.Returnable))
	for _, path := range col.Returnable {
		if path == "_id" {
			continue // surfaced as the standardized id key
		}
		copyPath(m.Doc, fields, path)
	}

	r := domain.Result{
		ID:         docID(m.Doc),
		Category:   frontendCategory,
		Score:      m.Score,
		Highlights: m.Highlights,
		Fields:     fields,
	}

	// Missing display path leaves name absent; no placeholder.
	if v, ok := lookupPath(m.Doc, col.DisplayNameField); ok {
		r.Name = displayString(v)
	}

	return r
}

// docID extracts the document identifier, string-formatted. Object ids are
// already hex strings by the time documents reach this layer.
func docID(doc map[string]any) string {
	switch id := doc["_id"].(type) {
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}

// lookupPath resolves a dotted path against nested maps.
func lookupPath(doc map[string]any, dotted string) (any, bool) {
	if dotted == "" {
		return nil, false
	}

	var cur any = doc
	for _, part := range strings.Split(dotted, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// copyPath copies the value at a dotted path from src into dst, recreating
// the nesting so original document structure is preserved. Missing paths are
// skipped silently.
func copyPath(src, dst map[string]any, dotted string) {
	parts := strings.Split(dotted, ".")

	var cur any = src
	for _, part := range parts[:len(parts)-1] {
		m, ok := cur.(map[string]any)
		if !ok {
			return
		}
		cur, ok = m[part]
		if !ok {
			return
		}
	}
	leafSrc, ok := cur.(map[string]any)
	if !ok {
		return
	}
	value, ok := leafSrc[parts[len(parts)-1]]
	if !ok {
		return
	}

	target := dst
	for _, part := range parts[:len(parts)-1] {
		next, ok := target[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			target[part] = next
		}
		target = next
	}
	target[parts[len(parts)-1]] = value
}

// displayString renders a display-name value. Non-string display values are
// rare but allowed; they format with their natural representation.
func displayString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

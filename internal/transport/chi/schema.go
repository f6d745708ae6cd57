package chi

import "github.com/interactly/searchd/internal/domain"

// schemaDoc describes the search request and response shapes for the schema
// introspection endpoint. Kept in sync with domain.Request / domain.Response
// by hand; the shapes change rarely and deliberately.
func schemaDoc(categories []string) map[string]any {
	return map[string]any{
		"search_request_schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"teamId": map[string]any{
					"type":        "string",
					"description": "Team ID for the search",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Search query string; empty matches nothing",
				},
				"categories": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Frontend categories to search; omitted means all",
				},
				"limit": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"maximum":     domain.MaxLimit,
					"default":     domain.DefaultLimit,
					"description": "Maximum number of results to return",
				},
			},
			"required": []string{"teamId", "query"},
		},
		"search_response_schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"teamId":  map[string]any{"type": "string"},
				"query":   map[string]any{"type": "string"},
				"results": map[string]any{"type": "array"},
				"total":   map[string]any{"type": "integer"},
				"categories_searched": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"search_time_ms": map[string]any{"type": "number"},
			},
		},
		"available_categories": categories,
	}
}

package search

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/db"
	"github.com/interactly/searchd/internal/domain"
)

// clauseBuilder shapes one scored clause for one field strategy. Each
// FieldType owns its clause shape and option handling; the builder itself
// only dispatches.
type clauseBuilder func(f catalog.Field, query string) bson.M

var clauseBuilders = map[catalog.FieldType]clauseBuilder{
	catalog.FieldAutocomplete: autocompleteClause,
	catalog.FieldString:       textClause,
	catalog.FieldKeyword:      textClause,
	catalog.FieldToken:        equalsClause,
}

// buildQuery turns a collection's search config into an executable compound
// query: one scored should clause per searchable field strategy, OR-combined
// with minimumShouldMatch 1, and a non-scoring equals filter restricting to
// the caller's team.
//
// An empty or whitespace-only query returns (nil, nil) before any clause is
// constructed: a designed no-match, not an unfiltered scan or engine error.
func buildQuery(col catalog.Collection, index, queryText, teamID string) (*db.SearchQuery, error) {
	text := strings.TrimSpace(queryText)
	if text == "" {
		return nil, nil
	}

	filter, err := teamFilter(col, teamID)
	if err != nil {
		return nil, err
	}

	should := make([]bson.M, 0, len(col.Searchable))
	var highlightPaths []string
	for _, f := range col.Searchable {
		// The team field filters, it never scores.
		if f.Path == col.TeamIDField {
			continue
		}
		build, ok := clauseBuilders[f.Type]
		if !ok {
			continue
		}
		should = append(should, build(f, text))
		if f.Type == catalog.FieldString || f.Type == catalog.FieldKeyword {
			highlightPaths = append(highlightPaths, f.Path)
		}
	}

	return &db.SearchQuery{
		Index:              index,
		Filter:             []bson.M{filter},
		Should:             should,
		MinimumShouldMatch: 1,
		ReturnFields:       col.Returnable,
		HighlightPaths:     highlightPaths,
	}, nil
}

// teamFilter builds the non-scoring team isolation clause, coercing the
// request team id to the field's declared storage type. Coercion failure is
// a request-level validation error: a filter that fails open would return
// other teams' documents.
func teamFilter(col catalog.Collection, teamID string) (bson.M, error) {
	var value any
	switch col.TeamIDType {
	case catalog.TeamIDObjectID:
		oid, err := primitive.ObjectIDFromHex(teamID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a valid object id for field %s",
				domain.ErrTeamIDCoercion, teamID, col.TeamIDField)
		}
		value = oid
	default:
		value = teamID
	}

	return bson.M{"equals": bson.M{"path": col.TeamIDField, "value": value}}, nil
}

func autocompleteClause(f catalog.Field, query string) bson.M {
	clause := bson.M{
		"query":      query,
		"path":       f.Path,
		"tokenOrder": "any",
	}
	if f.Fuzzy != nil {
		clause["fuzzy"] = fuzzyDoc(f.Fuzzy)
	}
	applyBoost(clause, f.Boost)
	return bson.M{"autocomplete": clause}
}

func textClause(f catalog.Field, query string) bson.M {
	clause := bson.M{
		"query": query,
		"path":  f.Path,
	}
	if f.Fuzzy != nil {
		clause["fuzzy"] = fuzzyDoc(f.Fuzzy)
	}
	applyBoost(clause, f.Boost)
	return bson.M{"text": clause}
}

func equalsClause(f catalog.Field, query string) bson.M {
	clause := bson.M{
		"path":  f.Path,
		"value": query,
	}
	applyBoost(clause, f.Boost)
	return bson.M{"equals": clause}
}

// fuzzyDoc emits fuzzy options. Fuzzy is opt-in per field strategy; absent
// config means the clause is exact.
func fuzzyDoc(fz *catalog.Fuzzy) bson.M {
	doc := bson.M{"maxEdits": fz.MaxEdits}
	if fz.PrefixLength > 0 {
		doc["prefixLength"] = fz.PrefixLength
	}
	if fz.MaxExpansions > 0 {
		doc["maxExpansions"] = fz.MaxExpansions
	}
	return doc
}

// applyBoost attaches a score boost. 0 means the engine default weight 1.0,
// so no modifier is emitted.
func applyBoost(clause bson.M, boost float64) {
	if boost > 0 {
		clause["score"] = bson.M{"boost": bson.M{"value": boost}}
	}
}

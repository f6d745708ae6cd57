package index

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/interactly/searchd/internal/catalog"
)

// buildDefinition converts a catalog index definition into the document shape
// the store's index provisioning interface expects.
func buildDefinition(def catalog.IndexDefinition) bson.M {
	return bson.M{
		"mappings": bson.M{
			"dynamic": def.Dynamic,
			"fields":  buildFieldMappings(def.Fields),
		},
	}
}

func buildFieldMappings(fields map[string][]catalog.IndexMapping) bson.M {
	out := bson.M{}
	for name, mappings := range fields {
		docs := make([]bson.M, 0, len(mappings))
		for _, m := range mappings {
			docs = append(docs, buildMapping(m))
		}
		// A single mapping stays a document; multiple become an array.
		if len(docs) == 1 {
			out[name] = docs[0]
		} else {
			out[name] = docs
		}
	}
	return out
}

func buildMapping(m catalog.IndexMapping) bson.M {
	doc := bson.M{"type": string(m.Type)}

	switch m.Type {
	case catalog.FieldAutocomplete:
		if m.Tokenization != "" {
			doc["tokenization"] = m.Tokenization
		}
		if m.MinGrams > 0 {
			doc["minGrams"] = m.MinGrams
		}
		if m.MaxGrams > 0 {
			doc["maxGrams"] = m.MaxGrams
		}
		doc["foldDiacritics"] = m.FoldDiacritics
	case catalog.FieldDocument:
		doc["fields"] = buildFieldMappings(m.Fields)
	}

	return doc
}

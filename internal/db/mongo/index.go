package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/interactly/searchd/internal/db"
)

// ListSearchIndexes returns the names of the search indexes defined on a
// collection, via the $listSearchIndexes aggregation stage.
func (s *Store) ListSearchIndexes(ctx context.Context, collection string) ([]string, error) {
	cur, err := s.db.Collection(collection).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$listSearchIndexes", Value: bson.D{}}},
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpListSearchIndexes, Collection: collection, Err: err}
	}
	defer func() { _ = cur.Close(ctx) }()

	var names []string
	for cur.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&idx); err != nil {
			return nil, &db.Error{Op: db.OpListSearchIndexes, Collection: collection, Err: err}
		}
		if idx.Name != "" {
			names = append(names, idx.Name)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, &db.Error{Op: db.OpListSearchIndexes, Collection: collection, Err: err}
	}

	return names, nil
}

// CreateSearchIndex creates a named search index on a collection. The caller
// is responsible for create-if-absent semantics.
func (s *Store) CreateSearchIndex(ctx context.Context, collection, name string, definition any) error {
	_, err := s.db.Collection(collection).SearchIndexes().CreateOne(ctx, mongo.SearchIndexModel{
		Definition: definition,
		Options:    options.SearchIndexes().SetName(name),
	})
	if err != nil {
		return &db.Error{Op: db.OpCreateSearchIndex, Collection: collection, Err: err}
	}
	return nil
}

package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application depends on. It is
// idempotent and runs at serve start and from the maintain command.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		"posts": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"uploads": {
			{
				Keys:    bson.D{{Key: "bucket", Value: 1}, {Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"admin_users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"projeto_galeria": {
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
			{Keys: bson.D{{Key: "ordem", Value: 1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "post_slug", Value: 1}, {Key: "aprovado", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store wraps the Mongo database and exposes the query executor plus the
// typed repositories that live outside the table allow-list.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	adminUserRepo *AdminUserRepo
	uploadRepo    *UploadRepo
	commentRepo   *CommentRepo
}

// Connect opens a client, pings the deployment and wires the repositories.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(dbName)
	return &Store{
		client:        client,
		db:            db,
		adminUserRepo: NewAdminUserRepo(db),
		uploadRepo:    NewUploadRepo(db),
		commentRepo:   NewCommentRepo(db),
	}, nil
}

// Collection returns the collection backing an allow-listed table.
func (s *Store) Collection(t Table) *mongo.Collection {
	return s.db.Collection(t.CollectionName())
}

func (s *Store) AdminUserRepo() *AdminUserRepo {
	return s.adminUserRepo
}

func (s *Store) UploadRepo() *UploadRepo {
	return s.uploadRepo
}

func (s *Store) CommentRepo() *CommentRepo {
	return s.commentRepo
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

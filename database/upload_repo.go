package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/obrastudio/site-backend/models"
)

type UploadRepo struct {
	db *mongo.Database
}

func NewUploadRepo(db *mongo.Database) *UploadRepo {
	return &UploadRepo{db}
}

func (r *UploadRepo) collection() *mongo.Collection {
	return r.db.Collection("uploads")
}

// Put stores or replaces the payload at (bucket, key). Re-uploading the same
// path overwrites the previous bytes, which is what the admin UI expects when
// replacing an image.
func (r *UploadRepo) Put(ctx context.Context, upload models.Upload) error {
	filter := bson.M{"bucket": upload.Bucket, "key": upload.Key}
	update := bson.M{"$set": bson.M{
		"bucket":       upload.Bucket,
		"key":          upload.Key,
		"filename":     upload.Filename,
		"content_type": upload.ContentType,
		"size":         upload.Size,
		"data":         upload.Data,
		"created_at":   upload.CreatedAt,
	}}
	_, err := r.collection().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Get returns (nil, nil) when nothing is stored at (bucket, key).
func (r *UploadRepo) Get(ctx context.Context, bucket, key string) (*models.Upload, error) {
	var upload models.Upload
	err := r.collection().FindOne(ctx, bson.M{"bucket": bucket, "key": key}).Decode(&upload)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

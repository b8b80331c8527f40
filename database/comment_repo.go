package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/obrastudio/site-backend/models"
)

type CommentRepo struct {
	db *mongo.Database
}

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{db}
}

func (r *CommentRepo) collection() *mongo.Collection {
	return r.db.Collection("comments")
}

// ApprovedForSlug returns the approved comments of a post, oldest first.
func (r *CommentRepo) ApprovedForSlug(ctx context.Context, slug string) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{"post_slug": slug, "aprovado": true}, opts)
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// FindAll returns every comment, newest first, for the moderation screen.
func (r *CommentRepo) FindAll(ctx context.Context) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Add inserts a new comment. Comments start unapproved regardless of input.
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.Aprovado = false
	comment.CreatedAt = time.Now().UTC()
	_, err := r.collection().InsertOne(ctx, comment)
	return err
}

// Approve flips the moderation flag. Returns the number of matched comments
// so the handler can 404 on unknown ids.
func (r *CommentRepo) Approve(ctx context.Context, id string) (int64, error) {
	result, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": idFilterValue(id)},
		bson.M{"$set": bson.M{"aprovado": true}})
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

// Delete removes a comment by id, returning the number of deleted documents.
func (r *CommentRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": idFilterValue(id)})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

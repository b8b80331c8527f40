package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/obrastudio/site-backend/models"
)

type AdminUserRepo struct {
	db *mongo.Database
}

func NewAdminUserRepo(db *mongo.Database) *AdminUserRepo {
	return &AdminUserRepo{db}
}

func (r *AdminUserRepo) collection() *mongo.Collection {
	return r.db.Collection("admin_users")
}

// FindByEmail returns (nil, nil) when no admin with that email exists.
func (r *AdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.collection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AdminUserRepo) FindByID(ctx context.Context, id string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.collection().FindOne(ctx, bson.M{"_id": idFilterValue(id)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Bootstrap creates the configured admin user if it does not exist yet. It
// never overwrites an existing hash.
func (r *AdminUserRepo) Bootstrap(ctx context.Context, email, passwordHash string) (created bool, err error) {
	existing, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	_, err = r.collection().InsertOne(ctx, models.AdminUser{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

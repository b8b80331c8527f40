package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUser is the single credentialed identity for write access. Created at
// boot from configuration when absent.
type AdminUser struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

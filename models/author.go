package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author writes blog posts
type Author struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Nome      string             `json:"nome" bson:"nome"`
	Cargo     string             `json:"cargo,omitempty" bson:"cargo,omitempty"`
	Foto      string             `json:"foto,omitempty" bson:"foto,omitempty"`
	Bio       string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Publicado bool               `json:"publicado" bson:"publicado"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

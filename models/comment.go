package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a reader comment on a post, referenced by slug. New comments are
// unapproved until an admin approves them. ParentID threads replies.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PostSlug  string             `json:"post_slug" bson:"post_slug"`
	Nome      string             `json:"nome" bson:"nome"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Conteudo  string             `json:"conteudo" bson:"conteudo"`
	Aprovado  bool               `json:"aprovado" bson:"aprovado"`
	ParentID  string             `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

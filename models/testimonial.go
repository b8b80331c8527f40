package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Testimonial is a client quote shown on the home page carousel. Nota ranges
// 1-5; Ordem defines display order.
type Testimonial struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Nome      string             `json:"nome" bson:"nome"`
	Cargo     string             `json:"cargo,omitempty" bson:"cargo,omitempty"`
	Empresa   string             `json:"empresa,omitempty" bson:"empresa,omitempty"`
	Texto     string             `json:"texto" bson:"texto"`
	Nota      int                `json:"nota" bson:"nota"`
	Iniciais  string             `json:"iniciais,omitempty" bson:"iniciais,omitempty"`
	CorAvatar string             `json:"cor_avatar,omitempty" bson:"cor_avatar,omitempty"`
	Ativo     bool               `json:"ativo" bson:"ativo"`
	Ordem     int                `json:"ordem" bson:"ordem"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

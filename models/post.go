package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a blog post. Slug is unique across the collection. AutorID holds
// the id of the Author that wrote it, resolved at read time by the front end.
type Post struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Titulo         string             `json:"titulo" bson:"titulo"`
	Slug           string             `json:"slug" bson:"slug"`
	Resumo         string             `json:"resumo,omitempty" bson:"resumo,omitempty"`
	Conteudo       string             `json:"conteudo" bson:"conteudo"`
	ImagemDestaque string             `json:"imagem_destaque,omitempty" bson:"imagem_destaque,omitempty"`
	Categoria      string             `json:"categoria,omitempty" bson:"categoria,omitempty"`
	Tags           string             `json:"tags,omitempty" bson:"tags,omitempty"`
	DataPublicacao string             `json:"data_publicacao,omitempty" bson:"data_publicacao,omitempty"`
	AutorID        string             `json:"autor_id,omitempty" bson:"autor_id,omitempty"`
	Publicado      bool               `json:"publicado" bson:"publicado"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

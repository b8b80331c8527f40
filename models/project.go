package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project represents a portfolio project shown on the site
type Project struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Titulo              string             `json:"titulo" bson:"titulo"`
	DescricaoCurta      string             `json:"descricao_curta" bson:"descricao_curta"`
	DescricaoLongaPT    string             `json:"descricao_longa_pt" bson:"descricao_longa_pt"`
	DescricaoLongaEN    string             `json:"descricao_longa_en" bson:"descricao_longa_en"`
	ImagemCapa          string             `json:"imagem_capa" bson:"imagem_capa"`
	LinkSite            string             `json:"link_site,omitempty" bson:"link_site,omitempty"`
	LinkPortfolio1      string             `json:"link_portfolio_1,omitempty" bson:"link_portfolio_1,omitempty"`
	LinkPortfolio2      string             `json:"link_portfolio_2,omitempty" bson:"link_portfolio_2,omitempty"`
	LabelBotaoSite      string             `json:"label_botao_site,omitempty" bson:"label_botao_site,omitempty"`
	LabelBotao1         string             `json:"label_botao_1,omitempty" bson:"label_botao_1,omitempty"`
	LabelBotao2         string             `json:"label_botao_2,omitempty" bson:"label_botao_2,omitempty"`
	DataProjeto         string             `json:"data_projeto,omitempty" bson:"data_projeto,omitempty"`
	ExibirHome          bool               `json:"exibir_home" bson:"exibir_home"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// GalleryImage belongs to a Project; ProjectID holds the parent's hex id and
// Ordem defines the render sequence.
type GalleryImage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID string             `json:"project_id" bson:"project_id"`
	ImagemURL string             `json:"imagem_url" bson:"imagem_url"`
	Ordem     int                `json:"ordem" bson:"ordem"`
	Legenda   string             `json:"legenda,omitempty" bson:"legenda,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

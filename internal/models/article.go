package models

import (
	"time"
)

type Category string

const (
	CategoryNoticia  Category = "NOTICIA"
	CategoryEvento   Category = "EVENTO"
	CategoryEdital   Category = "EDITAL"
	CategoryPesquisa Category = "PESQUISA"
	CategoryExtensao Category = "EXTENSAO"
)

// ValidCategory reports whether s names a known article category.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryNoticia, CategoryEvento, CategoryEdital, CategoryPesquisa, CategoryExtensao:
		return true
	}
	return false
}

type Article struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Title       string           `gorm:"not null" json:"titulo"`
	Slug        string           `gorm:"uniqueIndex;not null" json:"slug"`
	Summary     string           `gorm:"type:text" json:"resumo"`
	CoverURL    string           `json:"capa_url"`
	Category    Category         `gorm:"size:20;not null" json:"categoria"`
	Published   bool             `gorm:"default:false;index" json:"publicado"`
	PublishedAt *time.Time       `gorm:"index" json:"publicado_em"`
	AuthorID    uint             `gorm:"not null;index" json:"autor_id"`
	Author      User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"autor"`
	Sections    []ArticleSection `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArticleID" json:"sessoes"`
	CreatedAt   time.Time        `json:"criado_em"`
	UpdatedAt   time.Time        `json:"atualizado_em"`
}

type SectionType string

const (
	SectionTexto  SectionType = "TEXTO"
	SectionImagem SectionType = "IMAGEM"
)

// ArticleSection is one ordered block of article content, either a text
// block or an image.
type ArticleSection struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ArticleID uint        `gorm:"not null;index" json:"artigo_id"`
	Order     int         `gorm:"column:ordem;not null" json:"ordem"`
	Type      SectionType `gorm:"size:10;not null" json:"tipo"`
	Text      string      `gorm:"type:text" json:"texto"`
	TextHTML  string      `gorm:"-" json:"texto_html,omitempty"`
	ImageURL  string      `json:"imagem_url"`
}

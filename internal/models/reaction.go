package models

import (
	"time"
)

type ReactionType string

const (
	ReactionCurtir   ReactionType = "CURTIR"
	ReactionAmei     ReactionType = "AMEI"
	ReactionSurpreso ReactionType = "SURPRESO"
	ReactionTriste   ReactionType = "TRISTE"
	ReactionBravo    ReactionType = "BRAVO"
)

// ValidReactionType reports whether s names a known reaction type.
func ValidReactionType(s string) bool {
	switch ReactionType(s) {
	case ReactionCurtir, ReactionAmei, ReactionSurpreso, ReactionTriste, ReactionBravo:
		return true
	}
	return false
}

// ArticleReaction holds at most one row per (user, article); the composite
// unique index backs the atomic upsert in the reaction service.
type ArticleReaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"column:usuario_id;not null;uniqueIndex:idx_usuario_artigo" json:"usuario_id"`
	ArticleID uint         `gorm:"column:artigo_id;not null;uniqueIndex:idx_usuario_artigo" json:"artigo_id"`
	Type      ReactionType `gorm:"column:tipo;size:10;not null" json:"tipo"`
	CreatedAt time.Time    `json:"criado_em"`
}

// CommentReaction mirrors ArticleReaction for comments.
type CommentReaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"column:usuario_id;not null;uniqueIndex:idx_usuario_comentario" json:"usuario_id"`
	CommentID uint         `gorm:"column:comentario_id;not null;uniqueIndex:idx_usuario_comentario" json:"comentario_id"`
	Type      ReactionType `gorm:"column:tipo;size:10;not null" json:"tipo"`
	CreatedAt time.Time    `json:"criado_em"`
}

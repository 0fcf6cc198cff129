package models

import (
	"time"
)

// Comment storage is flattened to two levels: ParentID always references a
// top-level comment, no matter how deep the reply chain the user answered
// into. InReplyToID keeps the immediate comment being answered so clients
// can still render "X replied to Y".
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;index" json:"artigo_id"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"autor_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"autor"`
	ParentID  *uint     `gorm:"index" json:"comentario_pai_id"` // nil for top-level comments
	InReplyTo *uint     `gorm:"column:in_reply_to_id" json:"responde_a_id"`
	Content   string    `gorm:"type:text;not null" json:"conteudo"`
	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

// CommentThread is the public two-level view: a root comment with its
// replies in chronological order.
type CommentThread struct {
	Comment
	Replies []Comment `json:"respostas"`
}

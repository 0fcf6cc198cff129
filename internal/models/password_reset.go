package models

import (
	"time"
)

// PasswordResetToken is a single-use opaque token mailed to the user.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expira_em"`
	Used      bool      `gorm:"default:false" json:"usado"`
	CreatedAt time.Time `json:"criado_em"`
}

package models

import (
	"time"
)

type Role string

const (
	RoleVisitante Role = "VISITANTE"
	RoleBolsista  Role = "BOLSISTA"
	RoleProfessor Role = "PROFESSOR"
	RoleTecnico   Role = "TECNICO_ADMINISTRATIVO"
	RoleAdmin     Role = "ADMINISTRADOR"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleVisitante, RoleBolsista, RoleProfessor, RoleTecnico, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Login        string    `gorm:"uniqueIndex;not null" json:"login"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null" json:"nome"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"size:30;default:'VISITANTE';not null" json:"papel"`
	TokenVersion string    `gorm:"size:64;not null" json:"-"` // rotating; changing it invalidates issued tokens
	CreatedAt    time.Time `json:"criado_em"`
	UpdatedAt    time.Time `json:"atualizado_em"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsApprover reports whether the user may list pending role requests and
// decide the scholarship kind.
func (u *User) IsApprover() bool {
	return u.Role == RoleAdmin || u.Role == RoleProfessor || u.Role == RoleTecnico
}

// IsEditor reports whether the user may manage articles.
func (u *User) IsEditor() bool {
	return u.Role == RoleAdmin || u.Role == RoleProfessor || u.Role == RoleTecnico
}

// Extension records. One row per user, created when the user is promoted to
// the matching role; administrative staff fill in role-specific data later.

type Bolsista struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"usuario_id"`
	CreatedAt time.Time `json:"criado_em"`
}

type Professor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"usuario_id"`
	CreatedAt time.Time `json:"criado_em"`
}

type TecnicoAdministrativo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"usuario_id"`
	CreatedAt time.Time `json:"criado_em"`
}

package models

import (
	"encoding/json"
	"time"
)

type RequestType string

const (
	RequestBolsista  RequestType = "BOLSISTA"
	RequestProfessor RequestType = "PROFESSOR"
	RequestTecnico   RequestType = "TECNICO"
)

// ValidRequestType reports whether s names a known role request type.
func ValidRequestType(s string) bool {
	switch RequestType(s) {
	case RequestBolsista, RequestProfessor, RequestTecnico:
		return true
	}
	return false
}

// Role returns the role granted when a request of this type is accepted.
func (t RequestType) Role() Role {
	switch t {
	case RequestBolsista:
		return RoleBolsista
	case RequestProfessor:
		return RoleProfessor
	case RequestTecnico:
		return RoleTecnico
	}
	return RoleVisitante
}

type RequestStatus string

const (
	StatusPendente  RequestStatus = "PENDENTE"
	StatusAceita    RequestStatus = "ACEITA"
	StatusRejeitada RequestStatus = "REJEITADA"
)

// MarshalJSON maps the stored ACEITA status to the wire value APROVADA,
// which is what clients expect.
func (s RequestStatus) MarshalJSON() ([]byte, error) {
	if s == StatusAceita {
		return json.Marshal("APROVADA")
	}
	return json.Marshal(string(s))
}

// RoleRequest is a user's application to be upgraded from the baseline role.
// The unique index on UserID enforces at most one request per user; a
// rejected request is reopened in place instead of duplicated.
type RoleRequest struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	UserID     uint          `gorm:"column:usuario_id;uniqueIndex;not null" json:"usuario_id"`
	User       User          `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Type       RequestType   `gorm:"column:tipo;size:20;not null" json:"tipo"`
	Status     RequestStatus `gorm:"size:20;default:'PENDENTE';not null" json:"status"`
	Message    string        `gorm:"column:mensagem;type:text" json:"mensagem"`
	ApproverID *uint         `gorm:"column:aprovador_id" json:"aprovador_id"`
	CreatedAt  time.Time     `json:"criado_em"`
	UpdatedAt  time.Time     `json:"atualizado_em"`
}

package services

import (
	"errors"
	"fmt"

	"uninews/internal/models"

	"gorm.io/gorm"
)

// RoleRequestService drives the promotion workflow. Every user holds at most
// one request row; a rejected request is reopened in place so the history of
// re-applications never piles up duplicate rows.
type RoleRequestService struct {
	db *gorm.DB
}

func NewRoleRequestService(db *gorm.DB) *RoleRequestService {
	return &RoleRequestService{db: db}
}

// CreateOrReopen files a new role request, or reopens the user's rejected
// one with the new type and message. A request that is already PENDENTE or
// ACEITA cannot be replaced.
func (s *RoleRequestService) CreateOrReopen(userID uint, tipo, mensagem string) (*models.RoleRequest, error) {
	if !models.ValidRequestType(tipo) {
		return nil, fmt.Errorf("%w: unknown request type %q", ErrBadRequest, tipo)
	}

	var existing models.RoleRequest
	err := s.db.Where("usuario_id = ?", userID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Status != models.StatusRejeitada {
			return nil, fmt.Errorf("%w: user already has a %s request", ErrBadRequest, existing.Status)
		}
		updates := map[string]interface{}{
			"tipo":         tipo,
			"mensagem":     mensagem,
			"status":       models.StatusPendente,
			"aprovador_id": nil,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.Type = models.RequestType(tipo)
		existing.Message = mensagem
		existing.Status = models.StatusPendente
		existing.ApproverID = nil
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		request := models.RoleRequest{
			UserID:  userID,
			Type:    models.RequestType(tipo),
			Status:  models.StatusPendente,
			Message: mensagem,
		}
		if err := s.db.Create(&request).Error; err != nil {
			return nil, err
		}
		return &request, nil
	default:
		return nil, err
	}
}

// ListOwn returns the caller's request as a zero-or-one element slice.
func (s *RoleRequestService) ListOwn(userID uint) ([]models.RoleRequest, error) {
	var requests []models.RoleRequest
	err := s.db.Where("usuario_id = ?", userID).Find(&requests).Error
	return requests, err
}

// ListPending returns every open request. Visibility is restricted to
// approver roles; the type rule only limits who may decide, not who may
// see.
func (s *RoleRequestService) ListPending(caller *models.User) ([]models.RoleRequest, error) {
	if !caller.IsApprover() {
		return nil, fmt.Errorf("%w: role requests require an approver role", ErrForbidden)
	}
	var requests []models.RoleRequest
	err := s.db.Preload("User").Where("status = ?", models.StatusPendente).
		Order("created_at ASC").Find(&requests).Error
	return requests, err
}

// Accept approves a pending request: the user gains the requested role and
// the matching extension record is created if it does not exist yet.
func (s *RoleRequestService) Accept(caller *models.User, requestID uint) (*models.RoleRequest, error) {
	request, err := s.pendingDecidableBy(caller, requestID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := EnsureExtensionRecord(tx, request.UserID, request.Type.Role()); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).
			Update("role", request.Type.Role()).Error; err != nil {
			return err
		}
		return tx.Model(request).Updates(map[string]interface{}{
			"status":       models.StatusAceita,
			"aprovador_id": caller.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	request.Status = models.StatusAceita
	request.ApproverID = &caller.ID
	return request, nil
}

// Reject closes a pending request without side effects on the user.
func (s *RoleRequestService) Reject(caller *models.User, requestID uint) (*models.RoleRequest, error) {
	request, err := s.pendingDecidableBy(caller, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(request).Updates(map[string]interface{}{
		"status":       models.StatusRejeitada,
		"aprovador_id": caller.ID,
	}).Error; err != nil {
		return nil, err
	}
	request.Status = models.StatusRejeitada
	request.ApproverID = &caller.ID
	return request, nil
}

// pendingDecidableBy loads a pending request and checks the caller against
// the approver rule: scholarship requests are decidable by any approver
// role, everything else by admins only.
func (s *RoleRequestService) pendingDecidableBy(caller *models.User, requestID uint) (*models.RoleRequest, error) {
	var request models.RoleRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role request not found", ErrNotFound)
		}
		return nil, err
	}
	if request.Status != models.StatusPendente {
		return nil, fmt.Errorf("%w: request already decided", ErrBadRequest)
	}
	if request.Type == models.RequestBolsista {
		if !caller.IsApprover() {
			return nil, fmt.Errorf("%w: scholarship requests require an approver role", ErrForbidden)
		}
	} else if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins decide this request type", ErrForbidden)
	}
	return &request, nil
}

// ReconcileRoleChange brings the user's request row in line with a role
// assigned directly by an admin. A pending request for the same role is
// marked accepted with no approver; a pending request for a different role
// is dropped.
func (s *RoleRequestService) ReconcileRoleChange(tx *gorm.DB, userID uint, newRole models.Role) error {
	var request models.RoleRequest
	err := tx.Where("usuario_id = ? AND status = ?", userID, models.StatusPendente).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if request.Type.Role() == newRole {
		return tx.Model(&request).Updates(map[string]interface{}{
			"status":       models.StatusAceita,
			"aprovador_id": nil,
		}).Error
	}
	return tx.Delete(&request).Error
}

// EnsureExtensionRecord creates the role-specific record for a user if it
// does not exist. Creating it twice is a no-op.
func EnsureExtensionRecord(tx *gorm.DB, userID uint, role models.Role) error {
	switch role {
	case models.RoleBolsista:
		var existing models.Bolsista
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.Bolsista{UserID: userID}).Error
		}
		return err
	case models.RoleProfessor:
		var existing models.Professor
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.Professor{UserID: userID}).Error
		}
		return err
	case models.RoleTecnico:
		var existing models.TecnicoAdministrativo
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.TecnicoAdministrativo{UserID: userID}).Error
		}
		return err
	}
	return nil
}

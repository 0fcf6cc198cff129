package services

import (
	"errors"
	"fmt"
	"strings"

	"uninews/internal/models"
	"uninews/internal/utils"

	"gorm.io/gorm"
)

// UserService covers account administration beyond auth: listing, profile
// edits and the admin-only role assignment with its request reconciliation.
type UserService struct {
	db       *gorm.DB
	requests *RoleRequestService
}

func NewUserService(db *gorm.DB, requests *RoleRequestService) *UserService {
	return &UserService{db: db, requests: requests}
}

func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("id ASC").Find(&users).Error
	return users, err
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfileInput carries the editable profile fields. Empty values are
// left unchanged.
type UpdateProfileInput struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// UpdateProfile edits name and e-mail. Only the user or an admin may edit;
// the new e-mail must be free.
func (s *UserService) UpdateProfile(caller *models.User, id uint, in UpdateProfileInput) (*models.User, error) {
	if caller.ID != id && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: cannot edit another user", ErrForbidden)
	}
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if nome := strings.TrimSpace(in.Nome); nome != "" {
		updates["name"] = nome
	}
	if in.Email != "" {
		email := utils.NormalizeEmail(in.Email)
		if email != user.Email {
			var count int64
			if err := s.db.Model(&models.User{}).
				Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, fmt.Errorf("%w: e-mail already in use", ErrBadRequest)
			}
			updates["email"] = email
		}
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes an account. Only the user or an admin may delete it.
func (s *UserService) Delete(caller *models.User, id uint) error {
	if caller.ID != id && !caller.IsAdmin() {
		return fmt.Errorf("%w: cannot delete another user", ErrForbidden)
	}
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(user).Error
}

// SetRole assigns a role directly, bypassing the request workflow. Any
// pending request is reconciled: accepted when it asked for this role,
// dropped otherwise. Privileged roles also get their extension record.
func (s *UserService) SetRole(caller *models.User, id uint, role string) (*models.User, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins assign roles", ErrForbidden)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrBadRequest, role)
	}
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	newRole := models.Role(role)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := EnsureExtensionRecord(tx, user.ID, newRole); err != nil {
			return err
		}
		if err := tx.Model(user).Update("role", newRole).Error; err != nil {
			return err
		}
		return s.requests.ReconcileRoleChange(tx, user.ID, newRole)
	})
	if err != nil {
		return nil, err
	}
	user.Role = newRole
	return user, nil
}

// AdminCreateInput is the payload for creating an account with a role
// already assigned.
type AdminCreateInput struct {
	Nome  string `json:"nome" binding:"required"`
	Login string `json:"login" binding:"required"`
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
	Papel string `json:"papel" binding:"required"`
}

// AdminCreate creates a user with the given role, including its extension
// record for privileged roles.
func (s *UserService) AdminCreate(caller *models.User, in AdminCreateInput) (*models.User, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins create accounts", ErrForbidden)
	}
	if !models.ValidRole(in.Papel) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrBadRequest, in.Papel)
	}
	if len(in.Senha) < passwordMinLen {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrBadRequest, passwordMinLen)
	}

	login := utils.NormalizeEmail(in.Login)
	email := utils.NormalizeEmail(in.Email)
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("login = ? OR email = ?", login, email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: login or e-mail already in use", ErrBadRequest)
	}

	hash, err := utils.HashPassword(in.Senha)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Login:        login,
		Email:        email,
		Name:         strings.TrimSpace(in.Nome),
		PasswordHash: hash,
		Role:         models.Role(in.Papel),
		TokenVersion: utils.RandomToken(16),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return EnsureExtensionRecord(tx, user.ID, user.Role)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"uninews/internal/models"
	"uninews/internal/utils"

	"gorm.io/gorm"
)

const passwordMinLen = 8

// Profile names accepted at registration. Privileged profiles get a role
// request filed automatically; the account itself always starts as a
// visitor.
const (
	ProfileVisitante = "visitante"
	ProfileBolsista  = "bolsista"
	ProfileDocente   = "docente"
	ProfileServidor  = "servidor"
)

// AuthService handles account creation, credential checks and the password
// reset flow.
type AuthService struct {
	db       *gorm.DB
	tokens   *TokenService
	requests *RoleRequestService
	notifier *Notifier
}

func NewAuthService(db *gorm.DB, tokens *TokenService, requests *RoleRequestService, notifier *Notifier) *AuthService {
	return &AuthService{db: db, tokens: tokens, requests: requests, notifier: notifier}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Nome   string `json:"nome" binding:"required"`
	Login  string `json:"login" binding:"required"`
	Email  string `json:"email" binding:"required"`
	Senha  string `json:"senha" binding:"required"`
	Perfil string `json:"perfil"`
}

// Register creates a visitor account and, for privileged profiles, files the
// matching role request. Returns the user and a signed token.
func (s *AuthService) Register(in RegisterInput) (*models.User, string, error) {
	login := utils.NormalizeEmail(in.Login)
	email := utils.NormalizeEmail(in.Email)
	perfil := strings.ToLower(strings.TrimSpace(in.Perfil))
	if perfil == "" {
		perfil = ProfileVisitante
	}

	if len(in.Senha) < passwordMinLen {
		return nil, "", fmt.Errorf("%w: password must have at least %d characters", ErrBadRequest, passwordMinLen)
	}
	if err := checkEmailSuffix(perfil, email); err != nil {
		return nil, "", err
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("login = ? OR email = ?", login, email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", fmt.Errorf("%w: login or e-mail already in use", ErrBadRequest)
	}

	hash, err := utils.HashPassword(in.Senha)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Login:        login,
		Email:        email,
		Name:         strings.TrimSpace(in.Nome),
		PasswordHash: hash,
		Role:         models.RoleVisitante,
		TokenVersion: utils.RandomToken(16),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	if tipo, privileged := profileRequestType(perfil); privileged {
		if _, err := s.requests.CreateOrReopen(user.ID, string(tipo), "solicitado no cadastro"); err != nil {
			log.Printf("auto role request for user %d: %v", user.ID, err)
		}
	}

	token, err := s.tokens.Sign(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// checkEmailSuffix enforces the institutional e-mail rule for privileged
// profiles.
func checkEmailSuffix(perfil, email string) error {
	switch perfil {
	case ProfileVisitante:
		return nil
	case ProfileBolsista:
		if !strings.HasSuffix(email, "@alu.ufc.br") {
			return fmt.Errorf("%w: scholarship accounts require an @alu.ufc.br e-mail", ErrBadRequest)
		}
	case ProfileDocente, ProfileServidor:
		if !strings.HasSuffix(email, "@ufc.br") {
			return fmt.Errorf("%w: staff accounts require an @ufc.br e-mail", ErrBadRequest)
		}
	default:
		return fmt.Errorf("%w: unknown profile %q", ErrBadRequest, perfil)
	}
	return nil
}

func profileRequestType(perfil string) (models.RequestType, bool) {
	switch perfil {
	case ProfileBolsista:
		return models.RequestBolsista, true
	case ProfileDocente:
		return models.RequestProfessor, true
	case ProfileServidor:
		return models.RequestTecnico, true
	}
	return "", false
}

// Login checks credentials and returns the user and a signed token.
func (s *AuthService) Login(login, senha string) (*models.User, string, error) {
	var user models.User
	err := s.db.Where("login = ?", utils.NormalizeEmail(login)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, "", err
	}
	if !utils.CheckPasswordHash(senha, user.PasswordHash) {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.tokens.Sign(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Logout rotates the user's token version, invalidating every token issued
// so far.
func (s *AuthService) Logout(userID uint) error {
	return s.rotateTokenVersion(s.db, userID)
}

func (s *AuthService) rotateTokenVersion(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).
		Update("token_version", utils.RandomToken(16)).Error
}

// ForgotPassword issues a single-use reset token and mails it. To avoid
// account enumeration the outcome is identical whether the e-mail exists or
// not.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	err := s.db.Where("email = ?", utils.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	expires := utils.StringToInt(os.Getenv("PASSWORD_RESET_EXPIRES_MINUTES"))
	if expires <= 0 {
		expires = 30
	}
	reset := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     utils.RandomToken(24),
		ExpiresAt: time.Now().Add(time.Duration(expires) * time.Minute),
	}
	if err := s.db.Create(&reset).Error; err != nil {
		return err
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, reset.Token); err != nil {
		log.Printf("password reset mail for user %d: %v", user.ID, err)
	}
	return nil
}

// ResetPassword consumes a reset token, sets the new password and rotates
// the token version so existing sessions die with the old password.
func (s *AuthService) ResetPassword(token, senha string) error {
	if len(senha) < passwordMinLen {
		return fmt.Errorf("%w: password must have at least %d characters", ErrBadRequest, passwordMinLen)
	}

	var reset models.PasswordResetToken
	err := s.db.Where("token = ?", token).First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: invalid reset token", ErrBadRequest)
	}
	if err != nil {
		return err
	}
	if reset.Used {
		return fmt.Errorf("%w: reset token already used", ErrBadRequest)
	}
	if time.Now().After(reset.ExpiresAt) {
		return fmt.Errorf("%w: reset token expired", ErrBadRequest)
	}

	hash, err := utils.HashPassword(senha)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		if err := s.rotateTokenVersion(tx, reset.UserID); err != nil {
			return err
		}
		return tx.Model(&reset).Update("used", true).Error
	})
}

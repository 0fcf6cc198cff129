package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"uninews/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// AuthClaims is the payload embedded in every issued bearer token. The
// TokenVersion claim is compared against the user's stored version on each
// request; rotating the stored version invalidates everything issued before.
type AuthClaims struct {
	UserID       uint   `json:"uid"`
	TokenVersion string `json:"versao_token"`
	Role         string `json:"papel"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens (HS256).
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService() *TokenService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}

	ttl := defaultTokenTTL
	if v := os.Getenv("JWT_EXPIRES_HOURS"); v != "" {
		var hours int
		if _, err := fmt.Sscanf(v, "%d", &hours); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for the user embedding id, token version and role.
func (s *TokenService) Sign(user *models.User) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID:       user.ID,
		TokenVersion: user.TokenVersion,
		Role:         string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses the token and returns its claims. The caller still has to
// compare the embedded token version against the stored one.
func (s *TokenService) Verify(tokenStr string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	return claims, nil
}

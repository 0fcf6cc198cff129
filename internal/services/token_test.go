package services

import (
	"testing"

	"uninews/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	svc := NewTokenService()

	user := &models.User{ID: 42, Role: models.RoleProfessor, TokenVersion: "v1"}
	token, err := svc.Sign(user)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, string(models.RoleProfessor), claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-um")
	signer := NewTokenService()
	token, err := signer.Sign(&models.User{ID: 1, TokenVersion: "v1"})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "segredo-dois")
	verifier := NewTokenService()
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	svc := NewTokenService()

	_, err := svc.Verify("nao-e-um-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

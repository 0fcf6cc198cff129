package services

import (
	"context"
	"testing"
	"time"

	"uninews/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(gdb *gorm.DB) *AuthService {
	return NewAuthService(gdb, NewTokenService(), NewRoleRequestService(gdb), NewNotifierFromEnv())
}

func TestRegisterSuffixRules(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)

	cases := []struct {
		perfil string
		email  string
		ok     bool
	}{
		{"visitante", "alguem@gmail.com", true},
		{"bolsista", "aluno@alu.ufc.br", true},
		{"bolsista", "aluno@gmail.com", false},
		{"docente", "prof@ufc.br", true},
		{"docente", "prof@gmail.com", false},
		{"servidor", "tec@ufc.br", true},
		{"servidor", "tec@alu.ufc.br", false},
		{"reitor", "x@ufc.br", false},
	}
	for i, tc := range cases {
		_, _, err := svc.Register(RegisterInput{
			Nome:   "Fulano",
			Login:  tc.email,
			Email:  tc.email,
			Senha:  "senha-segura",
			Perfil: tc.perfil,
		})
		if tc.ok {
			assert.NoError(t, err, "case %d", i)
		} else {
			assert.ErrorIs(t, err, ErrBadRequest, "case %d", i)
		}
	}
}

func TestRegisterCreatesVisitorWithAutoRequest(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)

	user, token, err := svc.Register(RegisterInput{
		Nome:   "Docente Novo",
		Login:  "Docente.Novo@UFC.BR",
		Email:  "Docente.Novo@UFC.BR",
		Senha:  "senha-segura",
		Perfil: "docente",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleVisitante, user.Role)
	assert.Equal(t, "docente.novo@ufc.br", user.Email)

	var request models.RoleRequest
	require.NoError(t, gdb.Where("usuario_id = ?", user.ID).First(&request).Error)
	assert.Equal(t, models.RequestProfessor, request.Type)
	assert.Equal(t, models.StatusPendente, request.Status)

	// Duplicate login is rejected.
	_, _, err = svc.Register(RegisterInput{
		Nome:  "Clone",
		Login: "docente.novo@ufc.br",
		Email: "outro@gmail.com",
		Senha: "senha-segura",
	})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestLogin(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)

	_, _, err := svc.Register(RegisterInput{
		Nome:  "Fulano",
		Login: "fulano@gmail.com",
		Email: "fulano@gmail.com",
		Senha: "senha-segura",
	})
	require.NoError(t, err)

	user, token, err := svc.Login("Fulano@Gmail.com", "senha-segura")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "fulano@gmail.com", user.Login)

	_, _, err = svc.Login("fulano@gmail.com", "senha-errada")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login("ninguem@gmail.com", "senha-segura")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogoutInvalidatesIssuedTokens(t *testing.T) {
	gdb := newTestDB(t)
	tokens := NewTokenService()
	svc := NewAuthService(gdb, tokens, NewRoleRequestService(gdb), NewNotifierFromEnv())
	user := newUser(t, gdb, models.RoleVisitante)

	token, err := tokens.Sign(user)
	require.NoError(t, err)
	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.TokenVersion, claims.TokenVersion)

	require.NoError(t, svc.Logout(user.ID))

	// The token still parses; the stored version no longer matches, which
	// is what the auth middleware checks.
	var reloaded models.User
	require.NoError(t, gdb.First(&reloaded, user.ID).Error)
	assert.NotEqual(t, claims.TokenVersion, reloaded.TokenVersion)
}

func TestPasswordResetLifecycle(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)
	user := newUser(t, gdb, models.RoleVisitante)
	versionBefore := user.TokenVersion
	ctx := context.Background()

	// Unknown e-mail looks exactly like success.
	require.NoError(t, svc.ForgotPassword(ctx, "desconhecido@gmail.com"))

	require.NoError(t, svc.ForgotPassword(ctx, user.Email))
	var reset models.PasswordResetToken
	require.NoError(t, gdb.Where("usuario_id = ?", user.ID).First(&reset).Error)

	err := svc.ResetPassword("token-inexistente", "nova-senha-forte")
	assert.ErrorIs(t, err, ErrBadRequest)

	err = svc.ResetPassword(reset.Token, "curta")
	assert.ErrorIs(t, err, ErrBadRequest)

	require.NoError(t, svc.ResetPassword(reset.Token, "nova-senha-forte"))

	// Single use.
	err = svc.ResetPassword(reset.Token, "outra-senha-forte")
	assert.ErrorIs(t, err, ErrBadRequest)

	var reloaded models.User
	require.NoError(t, gdb.First(&reloaded, user.ID).Error)
	assert.NotEqual(t, versionBefore, reloaded.TokenVersion)

	_, _, err = svc.Login(user.Login, "nova-senha-forte")
	assert.NoError(t, err)
}

func TestPasswordResetExpiry(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)
	user := newUser(t, gdb, models.RoleVisitante)

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	var reset models.PasswordResetToken
	require.NoError(t, gdb.Where("usuario_id = ?", user.ID).First(&reset).Error)

	require.NoError(t, gdb.Model(&reset).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	err := svc.ResetPassword(reset.Token, "nova-senha-forte")
	assert.ErrorIs(t, err, ErrBadRequest)
}

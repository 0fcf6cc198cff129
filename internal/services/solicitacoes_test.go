package services

import (
	"testing"

	"uninews/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrReopenSingleton(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoleRequestService(gdb)
	user := newUser(t, gdb, models.RoleVisitante)
	admin := newUser(t, gdb, models.RoleAdmin)

	request, err := svc.CreateOrReopen(user.ID, "BOLSISTA", "sou bolsista do laboratório")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendente, request.Status)

	// A pending request blocks a second one.
	_, err = svc.CreateOrReopen(user.ID, "PROFESSOR", "mudei de ideia")
	assert.ErrorIs(t, err, ErrBadRequest)

	// After rejection the same row is reopened with the new type.
	_, err = svc.Reject(admin, request.ID)
	require.NoError(t, err)

	reopened, err := svc.CreateOrReopen(user.ID, "PROFESSOR", "agora sou docente")
	require.NoError(t, err)
	assert.Equal(t, request.ID, reopened.ID)
	assert.Equal(t, models.RequestProfessor, reopened.Type)
	assert.Equal(t, models.StatusPendente, reopened.Status)
	assert.Nil(t, reopened.ApproverID)

	var count int64
	require.NoError(t, gdb.Model(&models.RoleRequest{}).
		Where("usuario_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAcceptGrantsRoleAndExtension(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoleRequestService(gdb)
	user := newUser(t, gdb, models.RoleVisitante)
	admin := newUser(t, gdb, models.RoleAdmin)

	request, err := svc.CreateOrReopen(user.ID, "TECNICO", "")
	require.NoError(t, err)

	accepted, err := svc.Accept(admin, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAceita, accepted.Status)
	require.NotNil(t, accepted.ApproverID)
	assert.Equal(t, admin.ID, *accepted.ApproverID)

	var reloaded models.User
	require.NoError(t, gdb.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.RoleTecnico, reloaded.Role)

	var count int64
	require.NoError(t, gdb.Model(&models.TecnicoAdministrativo{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Deciding twice is rejected.
	_, err = svc.Accept(admin, request.ID)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestExtensionRecordIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	user := newUser(t, gdb, models.RoleVisitante)

	require.NoError(t, EnsureExtensionRecord(gdb, user.ID, models.RoleBolsista))
	require.NoError(t, EnsureExtensionRecord(gdb, user.ID, models.RoleBolsista))

	var count int64
	require.NoError(t, gdb.Model(&models.Bolsista{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApproverRule(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoleRequestService(gdb)
	professor := newUser(t, gdb, models.RoleProfessor)
	visitor := newUser(t, gdb, models.RoleVisitante)

	scholarship := newUser(t, gdb, models.RoleVisitante)
	schReq, err := svc.CreateOrReopen(scholarship.ID, "BOLSISTA", "")
	require.NoError(t, err)

	staff := newUser(t, gdb, models.RoleVisitante)
	staffReq, err := svc.CreateOrReopen(staff.ID, "PROFESSOR", "")
	require.NoError(t, err)

	// A professor decides scholarship requests but not staff ones.
	_, err = svc.Accept(professor, staffReq.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Accept(professor, schReq.ID)
	assert.NoError(t, err)

	_, err = svc.Reject(visitor, staffReq.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListPendingVisibleToEveryApprover(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoleRequestService(gdb)
	admin := newUser(t, gdb, models.RoleAdmin)
	professor := newUser(t, gdb, models.RoleProfessor)
	tecnico := newUser(t, gdb, models.RoleTecnico)
	visitor := newUser(t, gdb, models.RoleVisitante)

	a := newUser(t, gdb, models.RoleVisitante)
	_, err := svc.CreateOrReopen(a.ID, "BOLSISTA", "")
	require.NoError(t, err)
	b := newUser(t, gdb, models.RoleVisitante)
	_, err = svc.CreateOrReopen(b.ID, "PROFESSOR", "")
	require.NoError(t, err)

	// Every approver role sees the full pending list; the type rule only
	// applies when deciding.
	for _, approver := range []*models.User{admin, professor, tecnico} {
		pending, err := svc.ListPending(approver)
		require.NoError(t, err)
		assert.Len(t, pending, 2, "approver %s", approver.Role)
	}

	_, err = svc.ListPending(visitor)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListOwnSingletonAsList(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoleRequestService(gdb)
	user := newUser(t, gdb, models.RoleVisitante)

	own, err := svc.ListOwn(user.ID)
	require.NoError(t, err)
	assert.Empty(t, own)

	_, err = svc.CreateOrReopen(user.ID, "BOLSISTA", "")
	require.NoError(t, err)

	own, err = svc.ListOwn(user.ID)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatusWireValues(t *testing.T) {
	cases := map[RequestStatus]string{
		StatusPendente:  `"PENDENTE"`,
		StatusAceita:    `"APROVADA"`,
		StatusRejeitada: `"REJEITADA"`,
	}
	for status, want := range cases {
		out, err := json.Marshal(status)
		require.NoError(t, err)
		assert.Equal(t, want, string(out))
	}
}

func TestRoleRequestSerializesMappedStatus(t *testing.T) {
	out, err := json.Marshal(RoleRequest{Status: StatusAceita})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status":"APROVADA"`)
	assert.NotContains(t, string(out), "ACEITA")
}

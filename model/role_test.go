package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRolesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedRoles(db))

	var roles []Role
	require.NoError(t, db.Order("id").Find(&roles).Error)
	require.Len(t, roles, 3)
	assert.Equal(t, RoleNameAdmin, roles[0].Name)
	assert.Equal(t, RoleAdmin, roles[0].ID)
	assert.Equal(t, RoleNameRecepcao, roles[2].Name)
}

func TestRoleLookup(t *testing.T) {
	for _, name := range []string{RoleNameAdmin, RoleNameRegulacao, RoleNameRecepcao} {
		id, ok := RoleID(name)
		require.True(t, ok, name)
		assert.Equal(t, name, RoleName(id))
	}
	_, ok := RoleID("medico")
	assert.False(t, ok)
	assert.Empty(t, RoleName(99))
	assert.Equal(t, RoleNameRegulacao, User{RoleID: RoleRegulacao}.RoleName())
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/assignment"
	rolectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/role"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

func TestServiceModulePermissions(t *testing.T) {
	f := setupFixture(t)
	svc := NewService(f.db)

	// no edge resolves to the empty set, not an error
	perms, err := svc.ModulePermissions(f.targetRole.ID, f.standalone.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, perms.Len())

	require.NoError(t, assignment.UpsertModuleEdge(f.db, f.targetRole.ID, f.standalone.ID, models.StringList{"crear", "editar"}))

	perms, err = svc.ModulePermissions(f.targetRole.ID, f.standalone.ID)
	require.NoError(t, err)
	assert.True(t, perms.Has(TokenCreate))
	assert.True(t, perms.Has(TokenEdit))
	assert.False(t, perms.Has(TokenDelete))
}

func TestServiceReachOnlyEdgeResolvesEmpty(t *testing.T) {
	f := setupFixture(t)
	svc := NewService(f.db)

	// NULL permission list: the role reaches the module but may do nothing
	require.NoError(t, assignment.UpsertModuleEdge(f.db, f.targetRole.ID, f.parent.ID, nil))

	perms, err := svc.ModulePermissions(f.targetRole.ID, f.parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, perms.Len())
	assert.False(t, perms.Has(TokenCreate))
}

func TestServiceTabPermissions(t *testing.T) {
	f := setupFixture(t)
	svc := NewService(f.db)

	perms, err := svc.TabPermissions(f.targetRole.ID, f.tab.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, perms.Len())

	require.NoError(t, assignment.UpsertTabEdge(f.db, f.targetRole.ID, f.tab.ID, models.StringList{"eliminar"}))

	perms, err = svc.TabPermissions(f.targetRole.ID, f.tab.ID)
	require.NoError(t, err)
	assert.True(t, perms.Has(TokenDelete))
}

func TestServiceHasTabToken(t *testing.T) {
	f := setupFixture(t)
	svc := NewService(f.db)

	has, err := svc.HasTabToken(f.operatorRole.ID, f.gates.ModulesTabID, TokenCreate)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasTabToken(f.targetRole.ID, f.gates.ModulesTabID, TokenCreate)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestServiceSoftDeletedRoleResolvesEmpty(t *testing.T) {
	f := setupFixture(t)
	svc := NewService(f.db)

	require.NoError(t, assignment.UpsertModuleEdge(f.db, f.targetRole.ID, f.standalone.ID, models.StringList{"crear"}))
	require.NoError(t, assignment.UpsertTabEdge(f.db, f.targetRole.ID, f.tab.ID, models.StringList{"crear"}))

	require.NoError(t, rolectl.Delete(f.db, f.targetRole.ID))

	// the edges survive the soft delete but stop resolving
	perms, err := svc.ModulePermissions(f.targetRole.ID, f.standalone.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, perms.Len())

	perms, err = svc.TabPermissions(f.targetRole.ID, f.tab.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, perms.Len())

	has, err := svc.HasTabToken(f.targetRole.ID, f.tab.ID, TokenCreate)
	require.NoError(t, err)
	assert.False(t, has)
}

package assignment

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.Role{},
		&models.Module{},
		&models.Tab{},
		&models.RoleModule{},
		&models.RoleTab{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// world seeds a role plus a parent with two children and one standalone
// module with a tab.
type world struct {
	role       models.Role
	parent     models.Module
	childA     models.Module
	childB     models.Module
	standalone models.Module
	tab        models.Tab
}

func seedWorld(t *testing.T, db *gorm.DB) world {
	t.Helper()

	w := world{
		role:   models.Role{Name: "Estándar", Abbreviation: "STD"},
		parent: models.Module{Name: "Ventas", Route: "/ventas", IsParent: true},
	}

	require.NoError(t, db.Create(&w.role).Error)
	require.NoError(t, db.Create(&w.parent).Error)

	w.childA = models.Module{Name: "Clientes", Route: "/clientes", ParentID: &w.parent.ID}
	w.childB = models.Module{Name: "Facturas", Route: "/facturas", ParentID: &w.parent.ID}
	w.standalone = models.Module{Name: "Reportes", Route: "/reportes"}

	require.NoError(t, db.Create(&w.childA).Error)
	require.NoError(t, db.Create(&w.childB).Error)
	require.NoError(t, db.Create(&w.standalone).Error)

	w.tab = models.Tab{ModuleID: w.standalone.ID, Name: "Mensuales", Route: "/mensuales"}
	require.NoError(t, db.Create(&w.tab).Error)

	return w
}

func TestUpsertModuleEdge(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.standalone.ID, models.StringList{"crear"}))

	edge, err := GetModuleEdge(db, w.role.ID, w.standalone.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"crear"}, edge.Permissions)

	// upserting again overwrites the permission list in place
	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.standalone.ID, models.StringList{"crear", "editar"}))

	edge, err = GetModuleEdge(db, w.role.ID, w.standalone.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"crear", "editar"}, edge.Permissions)

	var count int64
	db.Model(&models.RoleModule{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNullPermissionsStayNull(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	// NULL and empty list are different states on an edge
	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.parent.ID, nil))

	edge, err := GetModuleEdge(db, w.role.ID, w.parent.ID)
	require.NoError(t, err)
	assert.Nil(t, edge.Permissions)

	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.standalone.ID, models.StringList{}))

	edge, err = GetModuleEdge(db, w.role.ID, w.standalone.ID)
	require.NoError(t, err)
	assert.NotNil(t, edge.Permissions)
	assert.Empty(t, edge.Permissions)
}

func TestGetModuleEdgeNotFound(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	_, err := GetModuleEdge(db, w.role.ID, w.standalone.ID)
	require.ErrorIs(t, err, ErrEdgeNotFound)

	_, err = GetModuleEdge(nil, w.role.ID, w.standalone.ID)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestGetEdgesByRole(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.parent.ID, nil))
	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.childA.ID, models.StringList{"crear"}))
	require.NoError(t, UpsertTabEdge(db, w.role.ID, w.tab.ID, models.StringList{"editar"}))

	moduleEdges, err := GetModuleEdgesByRole(db, w.role.ID)
	require.NoError(t, err)
	require.Len(t, moduleEdges, 2)
	assert.Contains(t, moduleEdges, w.parent.ID)
	assert.Contains(t, moduleEdges, w.childA.ID)

	tabEdges, err := GetTabEdgesByRole(db, w.role.ID)
	require.NoError(t, err)
	require.Len(t, tabEdges, 1)
	assert.Equal(t, models.StringList{"editar"}, tabEdges[w.tab.ID].Permissions)

	empty, err := GetModuleEdgesByRole(db, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRemoveEdges(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.standalone.ID, nil))
	require.NoError(t, RemoveModuleEdge(db, w.role.ID, w.standalone.ID))

	_, err := GetModuleEdge(db, w.role.ID, w.standalone.ID)
	require.ErrorIs(t, err, ErrEdgeNotFound)

	// removing a missing edge is a no-op
	require.NoError(t, RemoveModuleEdge(db, w.role.ID, w.standalone.ID))
	require.NoError(t, RemoveTabEdge(db, w.role.ID, w.tab.ID))
}

func TestCountAssignedSiblings(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.childA.ID, nil))
	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.childB.ID, nil))

	// both children assigned, one excluded
	count, err := CountAssignedSiblings(db, w.role.ID, w.parent.ID, w.childA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, RemoveModuleEdge(db, w.role.ID, w.childB.ID))

	count, err = CountAssignedSiblings(db, w.role.ID, w.parent.ID, w.childA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// edges of other roles do not count
	otherRole := models.Role{Name: "Otro", Abbreviation: "OTR"}
	require.NoError(t, db.Create(&otherRole).Error)
	require.NoError(t, UpsertModuleEdge(db, otherRole.ID, w.childB.ID, nil))

	count, err = CountAssignedSiblings(db, w.role.ID, w.parent.ID, w.childA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGetModuleEdgeLocked(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	require.NoError(t, UpsertModuleEdge(db, w.role.ID, w.childA.ID, models.StringList{"crear"}))

	edge, err := GetModuleEdgeLocked(db, w.role.ID, w.childA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"crear"}, edge.Permissions)

	_, err = GetModuleEdgeLocked(db, w.role.ID, w.childB.ID)
	require.ErrorIs(t, err, ErrEdgeNotFound)

	_, err = GetModuleEdgeLocked(nil, w.role.ID, w.childA.ID)
	require.ErrorIs(t, err, ErrDBNil)
}

// The sibling read must hold a row lock on server engines: two concurrent
// unassigns of the last two siblings would otherwise each count the other
// edge on their own snapshot, both skip the parent removal and strand the
// parent edge.
func TestLockForUpdateClause(t *testing.T) {
	sqliteDB := setupTestDB(t).Session(&gorm.Session{DryRun: true})

	stmt := lockForUpdate(sqliteDB).Find(&[]models.RoleModule{}).Statement
	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE", "sqlite does not accept locking clauses")

	pg, err := gorm.Open(
		gormpostgres.Open("host=127.0.0.1 user=intranet dbname=intranet port=5432 sslmode=disable"),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true},
	)
	require.NoError(t, err)

	stmt = lockForUpdate(pg).Find(&[]models.RoleModule{}).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

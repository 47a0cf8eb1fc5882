package tree

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Role{}, &models.Module{}, &models.Tab{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func uintPtr(v uint) *uint { return &v }

func TestFullRoute(t *testing.T) {
	parents := map[uint]models.Module{
		1: {ID: 1, Route: "/ventas", IsParent: true},
	}

	testCases := []struct {
		name            string
		mod             models.Module
		expectedRoute   string
		expectedMissing bool
	}{
		{
			name:          "no parent",
			mod:           models.Module{Route: "/reportes"},
			expectedRoute: "/reportes",
		},
		{
			name:          "parent resolves",
			mod:           models.Module{Route: "/clientes", ParentID: uintPtr(1)},
			expectedRoute: "/ventas/clientes",
		},
		{
			name:            "dangling parent degrades to own route",
			mod:             models.Module{Route: "/clientes", ParentID: uintPtr(99)},
			expectedRoute:   "/clientes",
			expectedMissing: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			route, missing := FullRoute(tc.mod, parents)

			assert.Equal(t, tc.expectedRoute, route)
			assert.Equal(t, tc.expectedMissing, missing)
		})
	}
}

func TestModuleTree(t *testing.T) {
	db := setupTestDB(t)

	parent := models.Module{Name: "Ventas", Route: "/ventas", IsParent: true}
	require.NoError(t, db.Create(&parent).Error)

	child := models.Module{Name: "Clientes", Route: "/clientes", ParentID: &parent.ID}
	require.NoError(t, db.Create(&child).Error)

	standalone := models.Module{Name: "Reportes", Route: "/reportes"}
	require.NoError(t, db.Create(&standalone).Error)

	orphan := models.Module{Name: "Huérfano", Route: "/huerfano", ParentID: uintPtr(9999)}
	require.NoError(t, db.Create(&orphan).Error)

	tab := models.Tab{ModuleID: child.ID, Name: "Activos", Route: "/activos"}
	require.NoError(t, db.Create(&tab).Error)

	roots, err := ModuleTree(db)
	require.NoError(t, err)
	require.Len(t, roots, 3, "standalone, orphan and parent are the roots")

	byName := make(map[string]ModuleNode, len(roots))
	for _, node := range roots {
		byName[node.Name] = node
	}

	ventas, ok := byName["Ventas"]
	require.True(t, ok)
	require.Len(t, ventas.Children, 1)
	assert.Equal(t, "Clientes", ventas.Children[0].Name)
	assert.Equal(t, "/ventas/clientes", ventas.Children[0].FullRoute)
	require.Len(t, ventas.Children[0].Tabs, 1)
	assert.Equal(t, "/ventas/clientes/activos", ventas.Children[0].Tabs[0].FullRoute)

	reportes, ok := byName["Reportes"]
	require.True(t, ok)
	assert.Equal(t, "/reportes", reportes.FullRoute)
	assert.False(t, reportes.ParentMissing)

	// the orphan surfaces as a degraded root instead of vanishing
	huerfano, ok := byName["Huérfano"]
	require.True(t, ok)
	assert.Equal(t, "/huerfano", huerfano.FullRoute)
	assert.True(t, huerfano.ParentMissing)
}

func TestModuleTreeEmpty(t *testing.T) {
	db := setupTestDB(t)

	roots, err := ModuleTree(db)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestTabHosts(t *testing.T) {
	db := setupTestDB(t)

	parent := models.Module{Name: "Ventas", Route: "/ventas", IsParent: true}
	require.NoError(t, db.Create(&parent).Error)

	child := models.Module{Name: "Clientes", Route: "/clientes", ParentID: &parent.ID}
	require.NoError(t, db.Create(&child).Error)

	standalone := models.Module{Name: "Reportes", Route: "/reportes"}
	require.NoError(t, db.Create(&standalone).Error)

	hosts, err := TabHosts(db)
	require.NoError(t, err)
	require.Len(t, hosts, 2, "parent modules cannot host tabs")

	byName := make(map[string]TabHost, len(hosts))
	for _, h := range hosts {
		byName[h.Name] = h
	}

	assert.Equal(t, "/ventas/clientes", byName["Clientes"].FullRoute)
	assert.Equal(t, "/reportes", byName["Reportes"].FullRoute)
}

package role

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

	err = db.AutoMigrate(&models.Role{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		role          *models.Role
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			role:          &models.Role{Name: "Administrador", Abbreviation: "ADM"},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			role:          &models.Role{Abbreviation: "ADM"},
			expectedError: ErrRoleNameEmpty,
		},
		{
			name:          "empty abbreviation",
			dbParam:       db,
			role:          &models.Role{Name: "Administrador"},
			expectedError: ErrRoleAbbreviationEmpty,
		},
		{
			name:    "successful create",
			dbParam: db,
			role:    &models.Role{Name: "Administrador", Abbreviation: "ADM"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Create(tc.dbParam, tc.role)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, tc.role.ID)
			}
		})
	}
}

func TestGetByName(t *testing.T) {
	db := setupTestDB(t)

	role := &models.Role{Name: "Administrador", Abbreviation: "ADM"}
	require.NoError(t, Create(db, role))

	got, err := GetByName(db, "Administrador")
	require.NoError(t, err)
	assert.Equal(t, role.ID, got.ID)

	_, err = GetByName(db, "Inexistente")
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = GetByName(db, "")
	require.ErrorIs(t, err, ErrRoleNameEmpty)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	role := &models.Role{Name: "Administrador", Abbreviation: "ADM"}
	require.NoError(t, Create(db, role))

	role.Name = "Superadministrador"
	require.NoError(t, Update(db, role))

	got, err := GetByID(db, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Superadministrador", got.Name)

	require.ErrorIs(t, Update(db, &models.Role{Name: "X", Abbreviation: "X"}), ErrRoleNotFound)
}

func TestSoftDelete(t *testing.T) {
	db := setupTestDB(t)

	role := &models.Role{Name: "Administrador", Abbreviation: "ADM"}
	require.NoError(t, Create(db, role))

	other := &models.Role{Name: "Estándar", Abbreviation: "STD"}
	require.NoError(t, Create(db, other))

	require.NoError(t, Delete(db, role.ID))

	// the row stays in the table but stops resolving
	_, err := GetByID(db, role.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = GetByName(db, "Administrador")
	require.ErrorIs(t, err, ErrRoleNotFound)

	roles, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, other.ID, roles[0].ID)

	var count int64
	db.Model(&models.Role{}).Count(&count)
	assert.Equal(t, int64(2), count)

	// deleting twice reports not found
	require.ErrorIs(t, Delete(db, role.ID), ErrRoleNotFound)
	require.ErrorIs(t, Delete(db, 9999), ErrRoleNotFound)
}

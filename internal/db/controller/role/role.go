// Package role provides CRUD operations for roles.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when attempting to create/update a role with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleAbbreviationEmpty is returned when attempting to create/update a role with an empty abbreviation.
	ErrRoleAbbreviationEmpty = errors.New("role abbreviation cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a role by its ID. Soft-deleted roles do not resolve.
func GetByID(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.Role

	result := db.Where("deleted_at IS NULL").First(&r, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, result.Error
	}

	return &r, nil
}

// GetByName retrieves a role by its unique name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var r models.Role

	result := db.Where("name = ? AND deleted_at IS NULL", name).First(&r)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, result.Error
	}

	return &r, nil
}

// GetAll retrieves all roles that are not soft-deleted, ordered by id.
func GetAll(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role

	result := db.Where("deleted_at IS NULL").Order("id").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// Create creates a new role.
func Create(db *gorm.DB, r *models.Role) error {
	if db == nil {
		return ErrDBNil
	}

	if r.Name == "" {
		return ErrRoleNameEmpty
	}

	if r.Abbreviation == "" {
		return ErrRoleAbbreviationEmpty
	}

	return db.Create(r).Error
}

// Update saves an existing role.
func Update(db *gorm.DB, r *models.Role) error {
	if db == nil {
		return ErrDBNil
	}

	if r.ID == 0 {
		return ErrRoleNotFound
	}

	if r.Name == "" {
		return ErrRoleNameEmpty
	}

	if r.Abbreviation == "" {
		return ErrRoleAbbreviationEmpty
	}

	return db.Save(r).Error
}

// Delete soft-deletes a role by setting its deletion timestamp. The
// assignment edges of the role are kept; a soft-deleted role simply stops
// resolving.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Role{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrRoleNotFound
	}

	return nil
}

// Package module provides CRUD operations for navigation modules and
// enforces the structural invariants of the two-level module tree.
package module

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

var (
	// ErrModuleNotFound is returned when a module is not found.
	ErrModuleNotFound = errors.New("module not found")
	// ErrModuleNameEmpty is returned when attempting to create/update a module with an empty name.
	ErrModuleNameEmpty = errors.New("module name cannot be empty")
	// ErrModuleRouteEmpty is returned when attempting to create/update a module with an empty route.
	ErrModuleRouteEmpty = errors.New("module route cannot be empty")
	// ErrParentNotParent is returned when the referenced parent module is not flagged as parent.
	ErrParentNotParent = errors.New("referenced parent module is not a parent module")
	// ErrParentHasParent is returned when a parent module carries a parent reference itself.
	ErrParentHasParent = errors.New("a parent module cannot reference a parent")
	// ErrParentHasExtraPermissions is returned when a parent module carries extra permission tokens.
	ErrParentHasExtraPermissions = errors.New("a parent module cannot carry extra permission tokens")
	// ErrSelfParent is returned when a module references itself as parent.
	ErrSelfParent = errors.New("a module cannot reference itself as parent")
	// ErrModuleHasTabs is returned when a module that hosts tabs is flipped to parent.
	ErrModuleHasTabs = errors.New("a module hosting tabs cannot become a parent")
	// ErrModuleHasChildren is returned when a parent that still has child modules is demoted.
	ErrModuleHasChildren = errors.New("a module with child modules must stay a parent")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a module by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var mod models.Module

	result := db.First(&mod, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}

		return nil, result.Error
	}

	return &mod, nil
}

// GetByRoute retrieves a module by its route fragment.
func GetByRoute(db *gorm.DB, route string) (*models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if route == "" {
		return nil, ErrModuleRouteEmpty
	}

	var mod models.Module

	result := db.Where("route = ?", route).First(&mod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}

		return nil, result.Error
	}

	return &mod, nil
}

// GetAll retrieves all modules ordered by id.
func GetAll(db *gorm.DB) ([]models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var modules []models.Module

	result := db.Order("id").Find(&modules)
	if result.Error != nil {
		return nil, result.Error
	}

	return modules, nil
}

// GetParents retrieves all parent modules ordered by id.
func GetParents(db *gorm.DB) ([]models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var modules []models.Module

	result := db.Where("is_parent = ?", true).Order("id").Find(&modules)
	if result.Error != nil {
		return nil, result.Error
	}

	return modules, nil
}

// GetNonParents retrieves all non-parent modules ordered by id. These are
// the modules that can host tabs.
func GetNonParents(db *gorm.DB) ([]models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var modules []models.Module

	result := db.Where("is_parent = ?", false).Order("id").Find(&modules)
	if result.Error != nil {
		return nil, result.Error
	}

	return modules, nil
}

// Create creates a new module after validating the tree invariants.
func Create(db *gorm.DB, mod *models.Module) error {
	if db == nil {
		return ErrDBNil
	}

	if err := validateInvariants(db, mod); err != nil {
		return err
	}

	return db.Create(mod).Error
}

// Update saves an existing module after re-validating the tree invariants.
func Update(db *gorm.DB, mod *models.Module) error {
	if db == nil {
		return ErrDBNil
	}

	if mod.ID == 0 {
		return ErrModuleNotFound
	}

	if err := validateInvariants(db, mod); err != nil {
		return err
	}

	return db.Save(mod).Error
}

// Delete removes a module by ID. The delete is physical; children keep
// their ParentID and the tree layer degrades the dangling reference
// instead of failing.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Module{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrModuleNotFound
	}

	return nil
}

// validateInvariants rejects module states that would break the tree:
// parents with parents or extra tokens, children below non-parents, self
// references, and IsParent flips that would strand existing references.
func validateInvariants(db *gorm.DB, mod *models.Module) error {
	if mod.Name == "" {
		return ErrModuleNameEmpty
	}

	if mod.Route == "" {
		return ErrModuleRouteEmpty
	}

	if mod.IsParent {
		if mod.ParentID != nil {
			return ErrParentHasParent
		}

		if len(mod.ExtraPermissions) > 0 {
			return ErrParentHasExtraPermissions
		}

		// an existing module with tabs attached cannot be promoted,
		// tabs only attach to non-parents
		if mod.ID != 0 {
			var tabs int64
			if err := db.Model(&models.Tab{}).Where("module_id = ?", mod.ID).Count(&tabs).Error; err != nil {
				return err
			}

			if tabs > 0 {
				return ErrModuleHasTabs
			}
		}

		return nil
	}

	// a parent with children cannot be demoted, the children would hang
	// below a non-parent
	if mod.ID != 0 {
		var children int64
		if err := db.Model(&models.Module{}).Where("parent_id = ?", mod.ID).Count(&children).Error; err != nil {
			return err
		}

		if children > 0 {
			return ErrModuleHasChildren
		}
	}

	if mod.ParentID == nil {
		return nil
	}

	if mod.ID != 0 && *mod.ParentID == mod.ID {
		return ErrSelfParent
	}

	parent, err := GetByID(db, *mod.ParentID)
	if err != nil {
		return err
	}

	if !parent.IsParent {
		return ErrParentNotParent
	}

	return nil
}

// Package tab provides CRUD operations for navigation tabs.
package tab

import (
	"errors"

	"gorm.io/gorm"

	modulectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/module"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

var (
	// ErrTabNotFound is returned when a tab is not found.
	ErrTabNotFound = errors.New("tab not found")
	// ErrTabNameEmpty is returned when attempting to create/update a tab with an empty name.
	ErrTabNameEmpty = errors.New("tab name cannot be empty")
	// ErrTabRouteEmpty is returned when attempting to create/update a tab with an empty route.
	ErrTabRouteEmpty = errors.New("tab route cannot be empty")
	// ErrTabOnParentModule is returned when a tab references a parent module as host.
	ErrTabOnParentModule = errors.New("a tab cannot attach to a parent module")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a tab by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Tab, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.Tab

	result := db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTabNotFound
		}

		return nil, result.Error
	}

	return &t, nil
}

// GetByRoute retrieves a tab by its route fragment within a module.
func GetByRoute(db *gorm.DB, moduleID uint, route string) (*models.Tab, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if route == "" {
		return nil, ErrTabRouteEmpty
	}

	var t models.Tab

	result := db.Where("module_id = ? AND route = ?", moduleID, route).First(&t)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTabNotFound
		}

		return nil, result.Error
	}

	return &t, nil
}

// GetAll retrieves all tabs ordered by module and id.
func GetAll(db *gorm.DB) ([]models.Tab, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tabs []models.Tab

	result := db.Order("module_id, id").Find(&tabs)
	if result.Error != nil {
		return nil, result.Error
	}

	return tabs, nil
}

// GetByModule retrieves the tabs of one module ordered by id.
func GetByModule(db *gorm.DB, moduleID uint) ([]models.Tab, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tabs []models.Tab

	result := db.Where("module_id = ?", moduleID).Order("id").Find(&tabs)
	if result.Error != nil {
		return nil, result.Error
	}

	return tabs, nil
}

// Create creates a new tab after validating it attaches to a non-parent
// module.
func Create(db *gorm.DB, t *models.Tab) error {
	if db == nil {
		return ErrDBNil
	}

	if err := validate(db, t); err != nil {
		return err
	}

	return db.Create(t).Error
}

// Update saves an existing tab after re-validating its host module.
func Update(db *gorm.DB, t *models.Tab) error {
	if db == nil {
		return ErrDBNil
	}

	if t.ID == 0 {
		return ErrTabNotFound
	}

	if err := validate(db, t); err != nil {
		return err
	}

	return db.Save(t).Error
}

// Delete removes a tab by ID.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Tab{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTabNotFound
	}

	return nil
}

func validate(db *gorm.DB, t *models.Tab) error {
	if t.Name == "" {
		return ErrTabNameEmpty
	}

	if t.Route == "" {
		return ErrTabRouteEmpty
	}

	host, err := modulectl.GetByID(db, t.ModuleID)
	if err != nil {
		return err
	}

	if host.IsParent {
		return ErrTabOnParentModule
	}

	return nil
}

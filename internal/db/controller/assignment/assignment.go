// Package assignment is the storage layer for role assignment edges, the
// records that link a role to a module or tab together with the permission
// tokens granted there. All mutations are idempotent: upserting an existing
// edge overwrites its permission list, removing a missing edge is a no-op.
package assignment

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

var (
	// ErrEdgeNotFound is returned when an assignment edge does not exist.
	ErrEdgeNotFound = errors.New("assignment edge not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetModuleEdge retrieves the role↔module edge, or ErrEdgeNotFound.
func GetModuleEdge(db *gorm.DB, roleID, moduleID uint) (*models.RoleModule, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var edge models.RoleModule

	result := db.Where("role_id = ? AND module_id = ?", roleID, moduleID).First(&edge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEdgeNotFound
		}

		return nil, result.Error
	}

	return &edge, nil
}

// GetModuleEdgeLocked retrieves the role↔module edge like GetModuleEdge
// but takes a row lock on it, so concurrent transactions deciding the fate
// of the same edge serialize instead of racing on a snapshot.
func GetModuleEdgeLocked(db *gorm.DB, roleID, moduleID uint) (*models.RoleModule, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var edge models.RoleModule

	result := lockForUpdate(db).Where("role_id = ? AND module_id = ?", roleID, moduleID).First(&edge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEdgeNotFound
		}

		return nil, result.Error
	}

	return &edge, nil
}

// GetTabEdge retrieves the role↔tab edge, or ErrEdgeNotFound.
func GetTabEdge(db *gorm.DB, roleID, tabID uint) (*models.RoleTab, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var edge models.RoleTab

	result := db.Where("role_id = ? AND tab_id = ?", roleID, tabID).First(&edge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEdgeNotFound
		}

		return nil, result.Error
	}

	return &edge, nil
}

// GetModuleEdgesByRole retrieves all module edges of a role keyed by module id.
func GetModuleEdgesByRole(db *gorm.DB, roleID uint) (map[uint]models.RoleModule, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var edges []models.RoleModule

	result := db.Where("role_id = ?", roleID).Find(&edges)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make(map[uint]models.RoleModule, len(edges))
	for _, edge := range edges {
		out[edge.ModuleID] = edge
	}

	return out, nil
}

// GetTabEdgesByRole retrieves all tab edges of a role keyed by tab id.
func GetTabEdgesByRole(db *gorm.DB, roleID uint) (map[uint]models.RoleTab, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var edges []models.RoleTab

	result := db.Where("role_id = ?", roleID).Find(&edges)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make(map[uint]models.RoleTab, len(edges))
	for _, edge := range edges {
		out[edge.TabID] = edge
	}

	return out, nil
}

// UpsertModuleEdge creates the role↔module edge or overwrites its
// permission list when the edge already exists.
func UpsertModuleEdge(db *gorm.DB, roleID, moduleID uint, permissions models.StringList) error {
	if db == nil {
		return ErrDBNil
	}

	edge := models.RoleModule{
		RoleID:      roleID,
		ModuleID:    moduleID,
		Permissions: permissions,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permissions"}),
	}).Create(&edge).Error
}

// UpsertTabEdge creates the role↔tab edge or overwrites its permission
// list when the edge already exists.
func UpsertTabEdge(db *gorm.DB, roleID, tabID uint, permissions models.StringList) error {
	if db == nil {
		return ErrDBNil
	}

	edge := models.RoleTab{
		RoleID:      roleID,
		TabID:       tabID,
		Permissions: permissions,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "tab_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permissions"}),
	}).Create(&edge).Error
}

// RemoveModuleEdge deletes the role↔module edge. Removing an edge that
// does not exist is a no-op, not an error.
func RemoveModuleEdge(db *gorm.DB, roleID, moduleID uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Where("role_id = ? AND module_id = ?", roleID, moduleID).
		Delete(&models.RoleModule{}).Error
}

// RemoveTabEdge deletes the role↔tab edge. Removing an edge that does not
// exist is a no-op, not an error.
func RemoveTabEdge(db *gorm.DB, roleID, tabID uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Where("role_id = ? AND tab_id = ?", roleID, tabID).
		Delete(&models.RoleTab{}).Error
}

// CountAssignedSiblings counts how many non-parent children of parentID
// are still assigned to the role, excluding excludeModuleID. The cascade
// uses this inside the removal transaction: when the count reaches zero
// the parent edge has lost its purpose and is removed as well.
//
// The sibling edges are read with a row lock. A plain snapshot count would
// let two concurrent unassigns of the last two siblings each see the other
// edge still present, both skip the parent removal and leave the parent
// edge behind with no assigned child. The lock makes the second
// transaction wait and recount against committed state. Aggregates cannot
// be combined with FOR UPDATE on postgres, so the ids are fetched and
// counted here.
func CountAssignedSiblings(db *gorm.DB, roleID, parentID, excludeModuleID uint) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var siblingIDs []uint

	err := lockForUpdate(db).Table("role_modules").
		Joins("JOIN modules ON modules.id = role_modules.module_id").
		Where("role_modules.role_id = ?", roleID).
		Where("modules.parent_id = ?", parentID).
		Where("role_modules.module_id <> ?", excludeModuleID).
		Pluck("role_modules.module_id", &siblingIDs).Error
	if err != nil {
		return 0, err
	}

	return int64(len(siblingIDs)), nil
}

// lockForUpdate adds a FOR UPDATE clause on engines with row-level locks.
// sqlite rejects the syntax and serializes writers on its own.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}

	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

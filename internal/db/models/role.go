// Package models contains database model definitions.
package models

import "time"

// Role represents a role in the access-control system. Roles own the
// module and tab assignment edges that make parts of the navigation
// tree reachable for their users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "Administrador", "Estándar").
	Name string `gorm:"unique;size:100;not null"`
	// Abbreviation is the unique short code of the role (e.g., "ADM").
	Abbreviation string `gorm:"unique;size:20;not null"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (nil if not deleted, managed by GORM).
	DeletedAt *time.Time
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}

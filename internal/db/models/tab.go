package models

import "time"

// Tab represents a leaf navigation entry attached to a non-parent module.
// Tabs are the nodes that carry operational permissions for most of the
// wider system.
type Tab struct {
	// ID is the unique identifier for the tab.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the tab.
	Name string `gorm:"size:100;not null"`
	// Route is the route fragment of the tab, unique within its module.
	Route string `gorm:"size:150;not null;uniqueIndex:idx_tabs_module_route"`
	// ModuleID references the owning module. Must be a non-parent module.
	ModuleID uint `gorm:"not null;uniqueIndex:idx_tabs_module_route"`
	// ExtraPermissions holds node-specific permission tokens offered next to
	// the base tokens. NULL means none.
	ExtraPermissions StringList `gorm:"type:text"`
	// CreatedAt is the timestamp when the tab was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the tab was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Tab model.
func (Tab) TableName() string {
	return "tabs"
}

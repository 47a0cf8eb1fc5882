package models

import "time"

// Module represents a navigation entry in the two-level module tree.
// A parent module (IsParent=true) only groups child modules and never
// carries a ParentID or extra permission tokens. A non-parent module may
// optionally hang below a parent module and hosts the tabs.
type Module struct {
	// ID is the unique identifier for the module.
	ID uint `gorm:"primaryKey"`
	// Name is the unique display name of the module.
	Name string `gorm:"unique;size:100;not null"`
	// Icon is the icon class shown next to the module in the navigation.
	Icon string `gorm:"size:100"`
	// Route is the route fragment of the module (e.g., "/talento-humano").
	Route string `gorm:"size:150;not null"`
	// IsParent indicates whether this module only groups child modules.
	IsParent bool `gorm:"not null;default:false"`
	// ParentID optionally references the parent module. The reference is
	// deliberately not enforced with a database constraint: a parent may be
	// deleted out-of-band and the child must keep resolving (see tree.FullRoute).
	ParentID *uint `gorm:"index"`
	// ExtraPermissions holds node-specific permission tokens offered next to
	// the base tokens. Only valid on non-parent modules. NULL means none.
	ExtraPermissions StringList `gorm:"type:text"`
	// CreatedAt is the timestamp when the module was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the module was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Module model.
func (Module) TableName() string {
	return "modules"
}

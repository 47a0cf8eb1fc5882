package models

// RoleModule is the assignment edge between a role and a module. Its
// presence makes the module reachable for the role; the permission list
// says what the role may do there. A NULL permission list marks a module
// that is reachable only as a container (typically a parent created by the
// cascade), with no operational permission of its own.
type RoleModule struct {
	// RoleID is the ID of the role in this edge.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// ModuleID is the ID of the module in this edge.
	ModuleID uint `gorm:"primaryKey;column:module_id"`
	// Permissions is the ordered permission token list granted at this
	// module. NULL and empty are distinct (see type StringList).
	Permissions StringList `gorm:"type:text"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Module is the associated module (loaded via foreign key).
	Module Module `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RoleModule model.
func (RoleModule) TableName() string {
	return "role_modules"
}

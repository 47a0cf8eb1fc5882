package models

// RoleTab is the assignment edge between a role and a tab. Same shape as
// RoleModule but without any cascade semantics: tabs have no children.
type RoleTab struct {
	// RoleID is the ID of the role in this edge.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// TabID is the ID of the tab in this edge.
	TabID uint `gorm:"primaryKey;column:tab_id"`
	// Permissions is the ordered permission token list granted at this tab.
	Permissions StringList `gorm:"type:text"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Tab is the associated tab (loaded via foreign key).
	Tab Tab `gorm:"foreignKey:TabID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RoleTab model.
func (RoleTab) TableName() string {
	return "role_tabs"
}

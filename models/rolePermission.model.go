package models

import (
	"gorm.io/gorm"
)

// RolePermission grants a permission to a role. ScopeAllDomains marks grants
// that apply across every tenant instead of only the active one.
type RolePermission struct {
	gorm.Model
	RoleID          uint       `gorm:"not null;uniqueIndex:idx_role_permission"`
	Role            Role       `gorm:"foreignKey:RoleID"`
	PermissionID    uint       `gorm:"not null;uniqueIndex:idx_role_permission"`
	Permission      Permission `gorm:"foreignKey:PermissionID"`
	ScopeAllDomains bool       `gorm:"default:false"`
}

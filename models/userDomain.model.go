package models

import (
	"gorm.io/gorm"
)

// UserDomain links a user to a domain with a role within it. At most one
// membership per user carries IsDefault.
type UserDomain struct {
	gorm.Model
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_domain"`
	User      User   `gorm:"foreignKey:UserID"`
	DomainID  uint   `gorm:"not null;uniqueIndex:idx_user_domain"`
	Domain    Domain `gorm:"foreignKey:DomainID"`
	RoleID    uint   `gorm:"not null"`
	Role      Role   `gorm:"foreignKey:RoleID"`
	IsDefault bool   `gorm:"default:false"`
}

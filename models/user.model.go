package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null" json:"-"`
	Avatar   string `gorm:"default:''"`
	// CurrentUserDomainID points at the membership whose domain is the user's
	// active tenant context. Nil until the user selects a domain. Kept as a
	// plain reference, not a constrained association, so the users and
	// user_domains tables do not depend on each other circularly.
	CurrentUserDomainID *uint
}

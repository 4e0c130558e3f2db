package models

import (
	"gorm.io/gorm"
)

// Domain is a tenant: an isolated scope of content and membership.
type Domain struct {
	gorm.Model
	Name        string `gorm:"unique;not null"`
	Description string `gorm:"default:''"`
}

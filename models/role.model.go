package models

import (
	"gorm.io/gorm"
)

// Role is static reference data: superadmin, site_admin, doc_admin, editor.
type Role struct {
	gorm.Model
	Name string `gorm:"unique;not null"`
}

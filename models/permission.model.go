package models

import (
	"gorm.io/gorm"
)

// Permission is an atomic capability string, e.g. "doc_read" or "domain_create".
type Permission struct {
	gorm.Model
	Name string `gorm:"unique;not null;type:varchar(255)"`
}

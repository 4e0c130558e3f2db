package models

import (
	"time"
)

// Document lives in the content store, not the identity store. Domains holds
// the ids of the tenants the document is visible in; Roles the role names
// allowed to view it. Soft deletion keeps the record until the purge job
// removes it for good.
type Document struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Domains   []uint     `json:"domains"`
	Roles     []string   `json:"roles"`
	CreatedBy uint       `json:"createdBy"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// VisibleTo reports whether a document can be read from the given domain by
// the given role.
func (d *Document) VisibleTo(domainID uint, roleName string) bool {
	if d.Deleted {
		return false
	}
	inDomain := false
	for _, id := range d.Domains {
		if id == domainID {
			inDomain = true
			break
		}
	}
	if !inDomain {
		return false
	}
	for _, r := range d.Roles {
		if r == roleName {
			return true
		}
	}
	return false
}

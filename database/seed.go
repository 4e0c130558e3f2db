package database

import (
	"docport/models"
	"log"

	"gorm.io/gorm"
)

// Permission names checked by the gate.
const (
	PermDocRead      = "doc_read"
	PermDocCreate    = "doc_create"
	PermDocUpdate    = "doc_update"
	PermDocDelete    = "doc_delete"
	PermDomainRead   = "domain_read"
	PermDomainCreate = "domain_create"
	PermDomainDelete = "domain_delete"
	PermUserRead     = "user_read"
)

// Role names. Roles are flat tags, not a hierarchy.
const (
	RoleSuperadmin = "superadmin"
	RoleSiteAdmin  = "site_admin"
	RoleDocAdmin   = "doc_admin"
	RoleEditor     = "editor"
)

type roleGrant struct {
	permission      string
	scopeAllDomains bool
}

// roleGrants maps each role to the permissions it confers.
var roleGrants = map[string][]roleGrant{
	RoleSuperadmin: {
		{PermDocRead, true},
		{PermDocCreate, true},
		{PermDocUpdate, true},
		{PermDocDelete, true},
		{PermDomainRead, true},
		{PermDomainCreate, true},
		{PermDomainDelete, true},
		{PermUserRead, true},
	},
	RoleSiteAdmin: {
		{PermDomainRead, false},
		{PermDomainCreate, false},
		{PermDomainDelete, false},
		{PermUserRead, false},
		{PermDocRead, false},
	},
	RoleDocAdmin: {
		{PermDocRead, false},
		{PermDocCreate, false},
		{PermDocUpdate, false},
		{PermDocDelete, false},
	},
	RoleEditor: {
		{PermDocRead, false},
	},
}

// SeedReferenceData inserts roles, permissions and role grants. Every write is
// a FirstOrCreate, so re-seeding an existing database is a no-op.
func SeedReferenceData(db *gorm.DB) error {
	permissions := map[string]models.Permission{}
	for _, name := range []string{
		PermDocRead, PermDocCreate, PermDocUpdate, PermDocDelete,
		PermDomainRead, PermDomainCreate, PermDomainDelete, PermUserRead,
	} {
		var perm models.Permission
		if err := db.Where(models.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
			return err
		}
		permissions[name] = perm
	}

	for roleName, grants := range roleGrants {
		var role models.Role
		if err := db.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		for _, g := range grants {
			link := models.RolePermission{
				RoleID:       role.ID,
				PermissionID: permissions[g.permission].ID,
			}
			if err := db.Where(link).
				Attrs(models.RolePermission{ScopeAllDomains: g.scopeAllDomains}).
				FirstOrCreate(&models.RolePermission{}).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Reference data seeded.")
	return nil
}

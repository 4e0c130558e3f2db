package session

import (
	"docport/models"
	"sort"

	"gorm.io/gorm"
)

// PermissionGrant is one resolved capability. ScopeAllDomains marks grants
// valid across every tenant rather than only the active one.
type PermissionGrant struct {
	Name            string `json:"name"`
	ScopeAllDomains bool   `json:"scopeAllDomains"`
}

// ResolvePermissions expands a role into its concrete permission set via the
// Role -> RolePermission -> Permission join. A role with no grants yields an
// empty set. Results are sorted by name so repeated resolutions of the same
// role are identical.
func ResolvePermissions(db *gorm.DB, roleID uint) ([]PermissionGrant, error) {
	var links []models.RolePermission
	if err := db.Preload("Permission").
		Where("role_id = ?", roleID).
		Find(&links).Error; err != nil {
		return nil, err
	}

	grants := make([]PermissionGrant, 0, len(links))
	for _, link := range links {
		grants = append(grants, PermissionGrant{
			Name:            link.Permission.Name,
			ScopeAllDomains: link.ScopeAllDomains,
		})
	}

	sort.Slice(grants, func(i, j int) bool { return grants[i].Name < grants[j].Name })
	return grants, nil
}

package session

import (
	"docport/models"

	"gorm.io/gorm"
)

// DomainInfo is the projection of a tenant embedded in the assertion.
type DomainInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MembershipInfo is one entry of the user's membership list.
type MembershipInfo struct {
	MembershipID uint       `json:"membershipId"`
	Domain       DomainInfo `json:"domain"`
	RoleName     string     `json:"roleName"`
	IsDefault    bool       `json:"isDefault"`
}

// CurrentDomain is the active tenant context with its resolved permissions.
type CurrentDomain struct {
	MembershipID uint              `json:"membershipId"`
	Domain       DomainInfo        `json:"domain"`
	RoleName     string            `json:"roleName"`
	Permissions  []PermissionGrant `json:"permissions"`
}

// Assertion is the self-contained identity value carried in the session
// token. The permission gate consults it exclusively; permissions are never
// re-resolved from the identity store per request, trading a small staleness
// window for a round trip. Callers mutating memberships or roles must refresh
// and replace the cached assertion before trusting it further.
type Assertion struct {
	UserID                  uint             `json:"userId"`
	Username                string           `json:"username"`
	Avatar                  string           `json:"avatar"`
	Memberships             []MembershipInfo `json:"memberships"`
	CurrentDomain           *CurrentDomain   `json:"currentDomain"`
	RequiresDomainSelection bool             `json:"requiresDomainSelection"`
}

// HasPermission reports whether the active domain's resolved set contains the
// named permission.
func (a *Assertion) HasPermission(name string) bool {
	if a.CurrentDomain == nil {
		return false
	}
	for _, grant := range a.CurrentDomain.Permissions {
		if grant.Name == name {
			return true
		}
	}
	return false
}

// PermissionScopedAllDomains reports whether the named permission is held with
// all-domains scope.
func (a *Assertion) PermissionScopedAllDomains(name string) bool {
	if a.CurrentDomain == nil {
		return false
	}
	for _, grant := range a.CurrentDomain.Permissions {
		if grant.Name == name {
			return grant.ScopeAllDomains
		}
	}
	return false
}

// MembershipInDomain returns the user's membership in the given domain, if any.
func (a *Assertion) MembershipInDomain(domainID uint) (MembershipInfo, bool) {
	for _, m := range a.Memberships {
		if m.Domain.ID == domainID {
			return m, true
		}
	}
	return MembershipInfo{}, false
}

// BuildAssertion computes the session assertion for a user from live identity
// data. Login and refresh both go through here, so the two paths cannot drift
// apart. Current-membership selection order: the user's persisted reference if
// it still belongs to them, else the membership flagged default, else the
// first membership, else none.
func BuildAssertion(db *gorm.DB, userID uint) (*Assertion, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var memberships []models.UserDomain
	if err := db.Preload("Domain").Preload("Role").
		Where("user_id = ?", user.ID).
		Order("id asc").
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	assertion := &Assertion{
		UserID:      user.ID,
		Username:    user.Username,
		Avatar:      user.Avatar,
		Memberships: make([]MembershipInfo, 0, len(memberships)),
	}

	var current *models.UserDomain
	for i := range memberships {
		m := &memberships[i]
		assertion.Memberships = append(assertion.Memberships, MembershipInfo{
			MembershipID: m.ID,
			Domain:       DomainInfo{ID: m.Domain.ID, Name: m.Domain.Name},
			RoleName:     m.Role.Name,
			IsDefault:    m.IsDefault,
		})

		if user.CurrentUserDomainID != nil && m.ID == *user.CurrentUserDomainID {
			current = m
		}
	}

	if current == nil {
		for i := range memberships {
			if memberships[i].IsDefault {
				current = &memberships[i]
				break
			}
		}
	}
	if current == nil && len(memberships) > 0 {
		current = &memberships[0]
	}

	if current == nil {
		assertion.RequiresDomainSelection = true
		return assertion, nil
	}

	permissions, err := ResolvePermissions(db, current.RoleID)
	if err != nil {
		return nil, err
	}

	assertion.CurrentDomain = &CurrentDomain{
		MembershipID: current.ID,
		Domain:       DomainInfo{ID: current.Domain.ID, Name: current.Domain.Name},
		RoleName:     current.Role.Name,
		Permissions:  permissions,
	}
	return assertion, nil
}

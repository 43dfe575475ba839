package account

import (
	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// Tenant is the church scope a request operates under. A master account gets
// AllChurches and may pick any church explicitly; everyone else is pinned to
// a single church ID.
type Tenant struct {
	ChurchID    string
	AllChurches bool
}

// ResolveTenant determines the tenant scope for a profile.
//
// Masters see every church. Other accounts use their assigned church, falling
// back to the first church-scoped role assignment. An account with neither is
// unassigned: it authenticated fine but cannot reach tenant data until an
// administrator links it to a church.
func ResolveTenant(profile *models.ProfileWithRoles) (Tenant, error) {
	if profile.HasRole(string(auth.RoleMaster)) {
		return Tenant{AllChurches: true}, nil
	}

	if profile.ChurchID != nil && *profile.ChurchID != "" {
		return Tenant{ChurchID: *profile.ChurchID}, nil
	}

	for _, r := range profile.Roles {
		if r.ChurchID != nil && *r.ChurchID != "" {
			return Tenant{ChurchID: *r.ChurchID}, nil
		}
	}

	return Tenant{}, auth.ErrUnassigned
}

// CanAccess reports whether this tenant scope may touch the given church
func (t Tenant) CanAccess(churchID string) bool {
	if t.AllChurches {
		return true
	}
	return t.ChurchID != "" && t.ChurchID == churchID
}

// Scope returns the effective church ID for a request. Masters may override
// with an explicit church; everyone else ignores the override and stays
// pinned to their own church.
func (t Tenant) Scope(requested string) string {
	if t.AllChurches {
		return requested
	}
	return t.ChurchID
}

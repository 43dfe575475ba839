// Package models - profile.go defines the Profile model for user accounts with email,
// display name, optional tenant assignment, and OIDC subject, plus the RoleAssignment
// rows that grant roles within (or across) tenants.
package models

import "time"

// Profile represents a user account in the system
type Profile struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	ChurchID     *string   `json:"church_id,omitempty" db:"church_id"` // Nullable: unassigned until an administrator links a tenant
	GoogleSub    *string   `json:"-" db:"google_sub"`                  // OIDC subject identifier (unique per provider)
	PasswordHash *string   `json:"-" db:"password_hash"`               // Nullable for accounts created via Google sign-in only
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RoleAssignment represents a role granted to a user, optionally scoped to a church.
// A master assignment carries a nil ChurchID and applies across all tenants.
type RoleAssignment struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	ChurchID  *string   `json:"church_id,omitempty" db:"church_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProfileWithRoles represents a profile with its role assignments loaded
type ProfileWithRoles struct {
	Profile
	Roles []RoleAssignment
}

// HasRole returns true if any assignment grants the given role
func (p *ProfileWithRoles) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// RoleNames returns the unique role names across all assignments
func (p *ProfileWithRoles) RoleNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		if !seen[r.Role] {
			seen[r.Role] = true
			names = append(names, r.Role)
		}
	}
	return names
}

// Package auth - roles.go defines the role constants used for route authorization
// and provides HasRole, HasAnyRole, and CanManage helper functions for role checking.
package auth

import "fmt"

// Role represents an authorization role
type Role string

const (
	// RoleMaster is the cross-tenant super administrator. It is granted only to
	// the account whose email matches auth.master_email in configuration.
	RoleMaster Role = "master"

	// RoleAdmin administers a single church tenant
	RoleAdmin Role = "admin"

	// RoleLeader leads groups within a church
	RoleLeader Role = "leader"

	// RoleCollaborator assists with day-to-day records
	RoleCollaborator Role = "collaborator"

	// RoleMember is the default role for newly provisioned accounts
	RoleMember Role = "member"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleMaster,
		RoleAdmin,
		RoleLeader,
		RoleCollaborator,
		RoleMember,
	}
}

// ValidRoles returns a map of valid role strings
func ValidRoles() map[string]bool {
	valid := make(map[string]bool)
	for _, r := range AllRoles() {
		valid[string(r)] = true
	}
	return valid
}

// ValidateRole checks if the provided role string is recognized
func ValidateRole(role string) error {
	if !ValidRoles()[role] {
		return fmt.Errorf("invalid role: %s", role)
	}
	return nil
}

// HasRole checks if a user holds a required role.
// The master role is a wildcard satisfying every check.
func HasRole(userRoles []string, required Role) bool {
	requiredStr := string(required)

	for _, role := range userRoles {
		// Check for exact match
		if role == requiredStr {
			return true
		}

		// Master satisfies everything
		if role == string(RoleMaster) {
			return true
		}

		// Admins satisfy the lower tenant-scoped roles
		if role == string(RoleAdmin) &&
			(required == RoleLeader || required == RoleCollaborator || required == RoleMember) {
			return true
		}
	}

	return false
}

// HasAnyRole checks if a user holds at least one of the required roles
func HasAnyRole(userRoles []string, required []Role) bool {
	for _, r := range required {
		if HasRole(userRoles, r) {
			return true
		}
	}
	return false
}

// CanManage reports whether the user may perform mutating operations on
// tenant records (members, groups, events, finances).
func CanManage(userRoles []string) bool {
	return HasAnyRole(userRoles, []Role{RoleAdmin, RoleLeader, RoleCollaborator})
}

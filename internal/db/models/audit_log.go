// Package models - audit_log.go defines the AuditLog model for recording security-relevant
// events, capturing actor, action, affected resource, client IP, and arbitrary metadata.
package models

import "time"

// AuditLog represents an audit log entry for tracking user actions
type AuditLog struct {
	ID           string                 `json:"id" db:"id"`
	UserID       *string                `json:"user_id,omitempty" db:"user_id"` // Nullable for system actions
	ChurchID     *string                `json:"church_id,omitempty" db:"church_id"`
	Action       string                 `json:"action" db:"action"`                       // "member.create", "finance.delete", "church.update"
	ResourceType *string                `json:"resource_type,omitempty" db:"resource_type"` // "member", "group", "event", "finance", "church"
	ResourceID   *string                `json:"resource_id,omitempty" db:"resource_id"`     // UUID of affected resource
	Metadata     map[string]interface{} `json:"metadata,omitempty" db:"-"`                  // JSONB: additional context
	IPAddress    *string                `json:"ip_address,omitempty" db:"ip_address"`       // Client IP
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}

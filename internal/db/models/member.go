// Package models - member.go defines the Member model for church membership records
// with personal data and a lifecycle status.
package models

import "time"

// Member lifecycle statuses
const (
	MemberStatusActive      = "ativo"
	MemberStatusInactive    = "inativo"
	MemberStatusVisitor     = "visitante"
	MemberStatusTransferred = "transferido"
)

// Member represents a church member record
type Member struct {
	ID        string     `json:"id" db:"id"`
	ChurchID  string     `json:"church_id" db:"church_id"`
	Name      string     `json:"name" db:"name"`
	CPF       *string    `json:"cpf,omitempty" db:"cpf"` // Brazilian national ID number
	Email     *string    `json:"email,omitempty" db:"email"`
	Phone     *string    `json:"phone,omitempty" db:"phone"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Address   *string    `json:"address,omitempty" db:"address"`
	Status    string     `json:"status" db:"status"` // one of the MemberStatus* constants
	JoinedAt  *time.Time `json:"joined_at,omitempty" db:"joined_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidMemberStatus returns true if s is a recognized member status
func ValidMemberStatus(s string) bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusVisitor, MemberStatusTransferred:
		return true
	}
	return false
}

// IsActive returns true for members in the active status
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

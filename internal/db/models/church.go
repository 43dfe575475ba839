// Package models - church.go defines the Church model representing a tenant in the
// system, plus the aggregate view row combining per-church counts and finance totals.
package models

import "time"

// Church represents a church/tenant in the system
type Church struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CNPJ      *string   `json:"cnpj,omitempty" db:"cnpj"` // Brazilian company registration number
	Address   *string   `json:"address,omitempty" db:"address"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChurchWithStats represents a church with aggregate statistics from the
// church_finance_stats and per-entity count views. A church with no activity
// reports zeroes rather than NULLs.
type ChurchWithStats struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	CNPJ         *string `json:"cnpj,omitempty" db:"cnpj"`
	MemberCount  int     `json:"member_count" db:"member_count"`
	GroupCount   int     `json:"group_count" db:"group_count"`
	EventCount   int     `json:"event_count" db:"event_count"`
	TotalIncome  float64 `json:"total_income" db:"total_income"`
	TotalExpense float64 `json:"total_expense" db:"total_expense"`
	Balance      float64 `json:"balance" db:"balance"`
}

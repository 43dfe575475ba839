// Package models - finance.go defines the Finance model for income/expense records
// and the per-church finance totals view row.
package models

import "time"

// Finance entry types
const (
	FinanceTypeIncome  = "entrada"
	FinanceTypeExpense = "saida"
)

// Finance represents a single financial record for a church
type Finance struct {
	ID          string    `json:"id" db:"id"`
	ChurchID    string    `json:"church_id" db:"church_id"`
	Type        string    `json:"type" db:"type"` // FinanceTypeIncome or FinanceTypeExpense
	Category    *string   `json:"category,omitempty" db:"category"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"amount" db:"amount"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ValidFinanceType returns true if s is a recognized finance entry type
func ValidFinanceType(s string) bool {
	return s == FinanceTypeIncome || s == FinanceTypeExpense
}

// SignedAmount returns the amount with expenses negated, for balance arithmetic
func (f *Finance) SignedAmount() float64 {
	if f.Type == FinanceTypeExpense {
		return -f.Amount
	}
	return f.Amount
}

// FinanceStats represents the church_finance_stats view row for a single church
type FinanceStats struct {
	ChurchID     string  `json:"church_id" db:"church_id"`
	TotalIncome  float64 `json:"total_income" db:"total_income"`
	TotalExpense float64 `json:"total_expense" db:"total_expense"`
	Balance      float64 `json:"balance" db:"balance"`
}

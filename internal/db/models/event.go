// Package models - event.go defines the Event model for church calendar entries.
package models

import "time"

// Event represents a scheduled church event
type Event struct {
	ID          string     `json:"id" db:"id"`
	ChurchID    string     `json:"church_id" db:"church_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Location    *string    `json:"location,omitempty" db:"location"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsUpcoming returns true if the event starts after now
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}

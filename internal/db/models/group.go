// Package models - group.go defines the Group model for small groups/ministries
// within a church and the membership join rows linking members to groups.
package models

import "time"

// Group represents a small group or ministry within a church
type Group struct {
	ID          string    `json:"id" db:"id"`
	ChurchID    string    `json:"church_id" db:"church_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	LeaderID    *string   `json:"leader_id,omitempty" db:"leader_id"` // Member who leads the group
	MeetingDay  *string   `json:"meeting_day,omitempty" db:"meeting_day"`
	MeetingTime *string   `json:"meeting_time,omitempty" db:"meeting_time"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// GroupWithMemberCount represents a group with its member count from the
// group_member_counts view. Groups with no members report zero.
type GroupWithMemberCount struct {
	Group
	MemberCount int `json:"member_count" db:"member_count"`
}

// GroupMember represents a member's participation in a group
type GroupMember struct {
	GroupID  string    `json:"group_id" db:"group_id"`
	MemberID string    `json:"member_id" db:"member_id"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

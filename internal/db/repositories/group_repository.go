package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// GroupRepository handles group database operations.
// All queries are tenant-scoped: every read and write filters by church_id.
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup creates a new group in a church
func (r *GroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	group.ID = uuid.New().String()
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	query := `
		INSERT INTO groups (id, church_id, name, description, leader_id, meeting_day, meeting_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		group.ID,
		group.ChurchID,
		group.Name,
		group.Description,
		group.LeaderID,
		group.MeetingDay,
		group.MeetingTime,
		group.CreatedAt,
		group.UpdatedAt,
	)

	return err
}

// GetGroupByID retrieves a group by ID within a church
func (r *GroupRepository) GetGroupByID(ctx context.Context, churchID, groupID string) (*models.Group, error) {
	query := `
		SELECT id, church_id, name, description, leader_id, meeting_day, meeting_time, created_at, updated_at
		FROM groups
		WHERE church_id = $1 AND id = $2
	`

	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, churchID, groupID).Scan(
		&group.ID,
		&group.ChurchID,
		&group.Name,
		&group.Description,
		&group.LeaderID,
		&group.MeetingDay,
		&group.MeetingTime,
		&group.CreatedAt,
		&group.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return group, nil
}

// ListGroups retrieves all groups of a church with member counts, newest first.
// Counts come from the group_member_counts view; groups without members report zero.
func (r *GroupRepository) ListGroups(ctx context.Context, churchID string) ([]*models.GroupWithMemberCount, error) {
	query := `
		SELECT g.id, g.church_id, g.name, g.description, g.leader_id, g.meeting_day, g.meeting_time,
		       g.created_at, g.updated_at, COALESCE(c.member_count, 0) AS member_count
		FROM groups g
		LEFT JOIN group_member_counts c ON c.group_id = g.id
		WHERE g.church_id = $1
		ORDER BY g.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*models.GroupWithMemberCount, 0)
	for rows.Next() {
		group := &models.GroupWithMemberCount{}
		err := rows.Scan(
			&group.ID,
			&group.ChurchID,
			&group.Name,
			&group.Description,
			&group.LeaderID,
			&group.MeetingDay,
			&group.MeetingTime,
			&group.CreatedAt,
			&group.UpdatedAt,
			&group.MemberCount,
		)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

// UpdateGroup updates a group's named fields within a church
func (r *GroupRepository) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now()

	query := `
		UPDATE groups
		SET name = $3, description = $4, leader_id = $5, meeting_day = $6, meeting_time = $7, updated_at = $8
		WHERE church_id = $1 AND id = $2
	`

	_, err := r.db.ExecContext(ctx, query,
		group.ChurchID,
		group.ID,
		group.Name,
		group.Description,
		group.LeaderID,
		group.MeetingDay,
		group.MeetingTime,
		group.UpdatedAt,
	)

	return err
}

// DeleteGroup deletes a group within a church (cascades to memberships)
func (r *GroupRepository) DeleteGroup(ctx context.Context, churchID, groupID string) error {
	query := `DELETE FROM groups WHERE church_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, query, churchID, groupID)
	return err
}

// AddGroupMember adds a member to a group. Idempotent: re-adding no-ops.
func (r *GroupRepository) AddGroupMember(ctx context.Context, groupID, memberID string) error {
	query := `
		INSERT INTO group_members (group_id, member_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, member_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, groupID, memberID, time.Now())
	return err
}

// RemoveGroupMember removes a member from a group
func (r *GroupRepository) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND member_id = $2`
	_, err := r.db.ExecContext(ctx, query, groupID, memberID)
	return err
}

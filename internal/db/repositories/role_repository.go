package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// RoleRepository handles role assignment database operations
type RoleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// CreateAssignment grants a role to a user, optionally scoped to a church.
// Idempotent on (user_id, role, church_id): re-granting an existing role no-ops.
func (r *RoleRepository) CreateAssignment(ctx context.Context, assignment *models.RoleAssignment) error {
	assignment.ID = uuid.New().String()
	assignment.CreatedAt = time.Now()

	query := `
		INSERT INTO user_roles (id, user_id, role, church_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, role, church_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.UserID,
		assignment.Role,
		assignment.ChurchID,
		assignment.CreatedAt,
	)

	return err
}

// ListAssignmentsByUser retrieves all role assignments for a user
func (r *RoleRepository) ListAssignmentsByUser(ctx context.Context, userID string) ([]models.RoleAssignment, error) {
	query := `
		SELECT id, user_id, role, church_id, created_at
		FROM user_roles
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]models.RoleAssignment, 0)
	for rows.Next() {
		a := models.RoleAssignment{}
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Role,
			&a.ChurchID,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// DeleteAssignment revokes a single role assignment
func (r *RoleRepository) DeleteAssignment(ctx context.Context, assignmentID string) error {
	query := `DELETE FROM user_roles WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, assignmentID)
	return err
}

// DeleteAssignmentsByUser revokes every role assignment for a user
func (r *RoleRepository) DeleteAssignmentsByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM user_roles WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

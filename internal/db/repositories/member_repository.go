package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// MemberRepository handles member database operations.
// All queries are tenant-scoped: every read and write filters by church_id.
type MemberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// CreateMember creates a new member in a church
func (r *MemberRepository) CreateMember(ctx context.Context, member *models.Member) error {
	member.ID = uuid.New().String()
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()
	if member.Status == "" {
		member.Status = models.MemberStatusActive
	}

	query := `
		INSERT INTO members (id, church_id, name, cpf, email, phone, birth_date, address, status, joined_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.ChurchID,
		member.Name,
		member.CPF,
		member.Email,
		member.Phone,
		member.BirthDate,
		member.Address,
		member.Status,
		member.JoinedAt,
		member.CreatedAt,
		member.UpdatedAt,
	)

	return err
}

// GetMemberByID retrieves a member by ID within a church
func (r *MemberRepository) GetMemberByID(ctx context.Context, churchID, memberID string) (*models.Member, error) {
	query := `
		SELECT id, church_id, name, cpf, email, phone, birth_date, address, status, joined_at, created_at, updated_at
		FROM members
		WHERE church_id = $1 AND id = $2
	`

	member := &models.Member{}
	err := r.db.QueryRowContext(ctx, query, churchID, memberID).Scan(
		&member.ID,
		&member.ChurchID,
		&member.Name,
		&member.CPF,
		&member.Email,
		&member.Phone,
		&member.BirthDate,
		&member.Address,
		&member.Status,
		&member.JoinedAt,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return member, nil
}

// ListMembers retrieves all members of a church, newest first
func (r *MemberRepository) ListMembers(ctx context.Context, churchID string) ([]*models.Member, error) {
	query := `
		SELECT id, church_id, name, cpf, email, phone, birth_date, address, status, joined_at, created_at, updated_at
		FROM members
		WHERE church_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*models.Member, 0)
	for rows.Next() {
		member := &models.Member{}
		err := rows.Scan(
			&member.ID,
			&member.ChurchID,
			&member.Name,
			&member.CPF,
			&member.Email,
			&member.Phone,
			&member.BirthDate,
			&member.Address,
			&member.Status,
			&member.JoinedAt,
			&member.CreatedAt,
			&member.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// UpdateMember updates a member's named fields within a church
func (r *MemberRepository) UpdateMember(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now()

	query := `
		UPDATE members
		SET name = $3, cpf = $4, email = $5, phone = $6, birth_date = $7, address = $8, status = $9, joined_at = $10, updated_at = $11
		WHERE church_id = $1 AND id = $2
	`

	_, err := r.db.ExecContext(ctx, query,
		member.ChurchID,
		member.ID,
		member.Name,
		member.CPF,
		member.Email,
		member.Phone,
		member.BirthDate,
		member.Address,
		member.Status,
		member.JoinedAt,
		member.UpdatedAt,
	)

	return err
}

// DeleteMember deletes a member within a church
func (r *MemberRepository) DeleteMember(ctx context.Context, churchID, memberID string) error {
	query := `DELETE FROM members WHERE church_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, query, churchID, memberID)
	return err
}

// CountByChurch returns the number of members in a church
func (r *MemberRepository) CountByChurch(ctx context.Context, churchID string) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM members WHERE church_id = $1`
	err := r.db.QueryRowContext(ctx, query, churchID).Scan(&total)
	return total, err
}

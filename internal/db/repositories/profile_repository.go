// Package repositories implements the data access layer (repository pattern) for the service.
// Each repository type encapsulates all database queries for a domain entity.
// Handlers never issue SQL directly — all database access goes through this layer, which
// makes query logic testable in isolation and prevents accidental cross-tenant data access.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateProfile inserts a new profile. The insert is idempotent on email:
// a concurrent first sign-in from two sessions races to insert, the loser
// no-ops, and both callers re-fetch the surviving row. Returns true when
// this call actually created the row.
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) (bool, error) {
	profile.ID = uuid.New().String()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	query := `
		INSERT INTO profiles (id, email, name, avatar_url, church_id, google_sub, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.Name,
		profile.AvatarURL,
		profile.ChurchID,
		profile.GoogleSub,
		profile.PasswordHash,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// GetProfileByID retrieves a profile by ID
func (r *ProfileRepository) GetProfileByID(ctx context.Context, profileID string) (*models.Profile, error) {
	query := `
		SELECT id, email, name, avatar_url, church_id, google_sub, password_hash, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, profileID).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.AvatarURL,
		&profile.ChurchID,
		&profile.GoogleSub,
		&profile.PasswordHash,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetProfileByEmail retrieves a profile by email
func (r *ProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT id, email, name, avatar_url, church_id, google_sub, password_hash, created_at, updated_at
		FROM profiles
		WHERE email = $1
	`

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.AvatarURL,
		&profile.ChurchID,
		&profile.GoogleSub,
		&profile.PasswordHash,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetProfileByGoogleSub retrieves a profile by Google OIDC subject identifier
func (r *ProfileRepository) GetProfileByGoogleSub(ctx context.Context, sub string) (*models.Profile, error) {
	query := `
		SELECT id, email, name, avatar_url, church_id, google_sub, password_hash, created_at, updated_at
		FROM profiles
		WHERE google_sub = $1
	`

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, sub).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.AvatarURL,
		&profile.ChurchID,
		&profile.GoogleSub,
		&profile.PasswordHash,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return profile, nil
}

// UpdateProfile updates a profile's information
func (r *ProfileRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE profiles
		SET email = $2, name = $3, avatar_url = $4, church_id = $5, google_sub = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.Name,
		profile.AvatarURL,
		profile.ChurchID,
		profile.GoogleSub,
		profile.UpdatedAt,
	)

	return err
}

// AssignChurch links a profile to a church tenant
func (r *ProfileRepository) AssignChurch(ctx context.Context, profileID string, churchID *string) error {
	query := `UPDATE profiles SET church_id = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, profileID, churchID, time.Now())
	return err
}

// DeleteProfile deletes a profile (cascades to role assignments)
func (r *ProfileRepository) DeleteProfile(ctx context.Context, profileID string) error {
	query := `DELETE FROM profiles WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, profileID)
	return err
}

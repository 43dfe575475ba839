package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// ChurchRepository handles church (tenant) database operations
type ChurchRepository struct {
	db *sql.DB
}

// NewChurchRepository creates a new ChurchRepository
func NewChurchRepository(db *sql.DB) *ChurchRepository {
	return &ChurchRepository{db: db}
}

// CreateChurch creates a new church
func (r *ChurchRepository) CreateChurch(ctx context.Context, church *models.Church) error {
	church.ID = uuid.New().String()
	church.CreatedAt = time.Now()
	church.UpdatedAt = time.Now()

	query := `
		INSERT INTO churches (id, name, cnpj, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		church.ID,
		church.Name,
		church.CNPJ,
		church.Address,
		church.Phone,
		church.Email,
		church.CreatedAt,
		church.UpdatedAt,
	)

	return err
}

// GetChurchByID retrieves a church by ID
func (r *ChurchRepository) GetChurchByID(ctx context.Context, churchID string) (*models.Church, error) {
	query := `
		SELECT id, name, cnpj, address, phone, email, created_at, updated_at
		FROM churches
		WHERE id = $1
	`

	church := &models.Church{}
	err := r.db.QueryRowContext(ctx, query, churchID).Scan(
		&church.ID,
		&church.Name,
		&church.CNPJ,
		&church.Address,
		&church.Phone,
		&church.Email,
		&church.CreatedAt,
		&church.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return church, nil
}

// ListChurches retrieves all churches ordered by name
func (r *ChurchRepository) ListChurches(ctx context.Context) ([]*models.Church, error) {
	query := `
		SELECT id, name, cnpj, address, phone, email, created_at, updated_at
		FROM churches
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	churches := make([]*models.Church, 0)
	for rows.Next() {
		church := &models.Church{}
		err := rows.Scan(
			&church.ID,
			&church.Name,
			&church.CNPJ,
			&church.Address,
			&church.Phone,
			&church.Email,
			&church.CreatedAt,
			&church.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		churches = append(churches, church)
	}

	return churches, rows.Err()
}

// UpdateChurch updates a church's information
func (r *ChurchRepository) UpdateChurch(ctx context.Context, church *models.Church) error {
	church.UpdatedAt = time.Now()

	query := `
		UPDATE churches
		SET name = $2, cnpj = $3, address = $4, phone = $5, email = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		church.ID,
		church.Name,
		church.CNPJ,
		church.Address,
		church.Phone,
		church.Email,
		church.UpdatedAt,
	)

	return err
}

// DeleteChurch deletes a church (cascades to members, groups, events, finances)
func (r *ChurchRepository) DeleteChurch(ctx context.Context, churchID string) error {
	query := `DELETE FROM churches WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, churchID)
	return err
}

// Count returns the total number of churches
func (r *ChurchRepository) Count(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM churches`
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}

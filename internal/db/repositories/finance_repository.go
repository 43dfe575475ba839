package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// FinanceRepository handles financial record database operations.
// All queries are tenant-scoped: every read and write filters by church_id.
type FinanceRepository struct {
	db *sql.DB
}

// NewFinanceRepository creates a new FinanceRepository
func NewFinanceRepository(db *sql.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// CreateFinance creates a new financial record in a church
func (r *FinanceRepository) CreateFinance(ctx context.Context, finance *models.Finance) error {
	finance.ID = uuid.New().String()
	finance.CreatedAt = time.Now()
	finance.UpdatedAt = time.Now()

	query := `
		INSERT INTO finances (id, church_id, type, category, description, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		finance.ID,
		finance.ChurchID,
		finance.Type,
		finance.Category,
		finance.Description,
		finance.Amount,
		finance.Date,
		finance.CreatedAt,
		finance.UpdatedAt,
	)

	return err
}

// GetFinanceByID retrieves a financial record by ID within a church
func (r *FinanceRepository) GetFinanceByID(ctx context.Context, churchID, financeID string) (*models.Finance, error) {
	query := `
		SELECT id, church_id, type, category, description, amount, date, created_at, updated_at
		FROM finances
		WHERE church_id = $1 AND id = $2
	`

	finance := &models.Finance{}
	err := r.db.QueryRowContext(ctx, query, churchID, financeID).Scan(
		&finance.ID,
		&finance.ChurchID,
		&finance.Type,
		&finance.Category,
		&finance.Description,
		&finance.Amount,
		&finance.Date,
		&finance.CreatedAt,
		&finance.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return finance, nil
}

// ListFinances retrieves all financial records of a church, newest first
func (r *FinanceRepository) ListFinances(ctx context.Context, churchID string) ([]*models.Finance, error) {
	query := `
		SELECT id, church_id, type, category, description, amount, date, created_at, updated_at
		FROM finances
		WHERE church_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	finances := make([]*models.Finance, 0)
	for rows.Next() {
		finance := &models.Finance{}
		err := rows.Scan(
			&finance.ID,
			&finance.ChurchID,
			&finance.Type,
			&finance.Category,
			&finance.Description,
			&finance.Amount,
			&finance.Date,
			&finance.CreatedAt,
			&finance.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		finances = append(finances, finance)
	}

	return finances, rows.Err()
}

// UpdateFinance updates a financial record's named fields within a church
func (r *FinanceRepository) UpdateFinance(ctx context.Context, finance *models.Finance) error {
	finance.UpdatedAt = time.Now()

	query := `
		UPDATE finances
		SET type = $3, category = $4, description = $5, amount = $6, date = $7, updated_at = $8
		WHERE church_id = $1 AND id = $2
	`

	_, err := r.db.ExecContext(ctx, query,
		finance.ChurchID,
		finance.ID,
		finance.Type,
		finance.Category,
		finance.Description,
		finance.Amount,
		finance.Date,
		finance.UpdatedAt,
	)

	return err
}

// DeleteFinance deletes a financial record within a church
func (r *FinanceRepository) DeleteFinance(ctx context.Context, churchID, financeID string) error {
	query := `DELETE FROM finances WHERE church_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, query, churchID, financeID)
	return err
}

// GetFinanceStats retrieves the aggregated totals for a church from the
// church_finance_stats view
func (r *FinanceRepository) GetFinanceStats(ctx context.Context, churchID string) (*models.FinanceStats, error) {
	query := `
		SELECT church_id, total_income, total_expense, balance
		FROM church_finance_stats
		WHERE church_id = $1
	`

	stats := &models.FinanceStats{}
	err := r.db.QueryRowContext(ctx, query, churchID).Scan(
		&stats.ChurchID,
		&stats.TotalIncome,
		&stats.TotalExpense,
		&stats.Balance,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return stats, nil
}

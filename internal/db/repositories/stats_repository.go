// stats_repository.go implements StatsRepository, the read-only aggregate queries
// behind the master dashboard. It works over the reporting views and uses sqlx
// struct scanning since the rows never feed back into writes.
package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// StatsRepository handles cross-tenant aggregate queries for dashboards
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository over an existing connection pool
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: sqlx.NewDb(db, "postgres")}
}

// ListChurchStats retrieves every church with member/group/event counts and
// finance totals, ordered by name. Churches with no activity report zeroes.
func (r *StatsRepository) ListChurchStats(ctx context.Context) ([]models.ChurchWithStats, error) {
	query := `
		SELECT c.id, c.name, c.cnpj,
		       COALESCE(m.member_count, 0)  AS member_count,
		       COALESCE(g.group_count, 0)   AS group_count,
		       COALESCE(e.event_count, 0)   AS event_count,
		       COALESCE(f.total_income, 0)  AS total_income,
		       COALESCE(f.total_expense, 0) AS total_expense,
		       COALESCE(f.balance, 0)       AS balance
		FROM churches c
		LEFT JOIN (SELECT church_id, COUNT(*) AS member_count FROM members GROUP BY church_id) m ON m.church_id = c.id
		LEFT JOIN (SELECT church_id, COUNT(*) AS group_count FROM groups GROUP BY church_id) g ON g.church_id = c.id
		LEFT JOIN (SELECT church_id, COUNT(*) AS event_count FROM events GROUP BY church_id) e ON e.church_id = c.id
		LEFT JOIN church_finance_stats f ON f.church_id = c.id
		ORDER BY c.name ASC
	`

	stats := make([]models.ChurchWithStats, 0)
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetChurchStats retrieves the aggregate row for a single church,
// or nil when the church does not exist.
func (r *StatsRepository) GetChurchStats(ctx context.Context, churchID string) (*models.ChurchWithStats, error) {
	query := `
		SELECT c.id, c.name, c.cnpj,
		       COALESCE(m.member_count, 0)  AS member_count,
		       COALESCE(g.group_count, 0)   AS group_count,
		       COALESCE(e.event_count, 0)   AS event_count,
		       COALESCE(f.total_income, 0)  AS total_income,
		       COALESCE(f.total_expense, 0) AS total_expense,
		       COALESCE(f.balance, 0)       AS balance
		FROM churches c
		LEFT JOIN (SELECT church_id, COUNT(*) AS member_count FROM members GROUP BY church_id) m ON m.church_id = c.id
		LEFT JOIN (SELECT church_id, COUNT(*) AS group_count FROM groups GROUP BY church_id) g ON g.church_id = c.id
		LEFT JOIN (SELECT church_id, COUNT(*) AS event_count FROM events GROUP BY church_id) e ON e.church_id = c.id
		LEFT JOIN church_finance_stats f ON f.church_id = c.id
		WHERE c.id = $1
	`

	stats := &models.ChurchWithStats{}
	err := r.db.GetContext(ctx, stats, query, churchID)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return stats, nil
}

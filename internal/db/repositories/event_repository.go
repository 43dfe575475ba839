package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// EventRepository handles event database operations.
// All queries are tenant-scoped: every read and write filters by church_id.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent creates a new event in a church
func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	query := `
		INSERT INTO events (id, church_id, title, description, location, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.ChurchID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.CreatedAt,
		event.UpdatedAt,
	)

	return err
}

// GetEventByID retrieves an event by ID within a church
func (r *EventRepository) GetEventByID(ctx context.Context, churchID, eventID string) (*models.Event, error) {
	query := `
		SELECT id, church_id, title, description, location, starts_at, ends_at, created_at, updated_at
		FROM events
		WHERE church_id = $1 AND id = $2
	`

	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, churchID, eventID).Scan(
		&event.ID,
		&event.ChurchID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.EndsAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return event, nil
}

// ListEvents retrieves all events of a church, newest first
func (r *EventRepository) ListEvents(ctx context.Context, churchID string) ([]*models.Event, error) {
	query := `
		SELECT id, church_id, title, description, location, starts_at, ends_at, created_at, updated_at
		FROM events
		WHERE church_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.ChurchID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartsAt,
			&event.EndsAt,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// UpdateEvent updates an event's named fields within a church
func (r *EventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()

	query := `
		UPDATE events
		SET title = $3, description = $4, location = $5, starts_at = $6, ends_at = $7, updated_at = $8
		WHERE church_id = $1 AND id = $2
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ChurchID,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.UpdatedAt,
	)

	return err
}

// DeleteEvent deletes an event within a church
func (r *EventRepository) DeleteEvent(ctx context.Context, churchID, eventID string) error {
	query := `DELETE FROM events WHERE church_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, query, churchID, eventID)
	return err
}

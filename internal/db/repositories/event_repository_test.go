package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// ---------------------------------------------------------------------------
// Column definitions
// ---------------------------------------------------------------------------

var eventCols = []string{
	"id", "church_id", "title", "description", "location", "starts_at", "ends_at",
	"created_at", "updated_at",
}

// ---------------------------------------------------------------------------
// Row builders
// ---------------------------------------------------------------------------

func sampleEventRow() *sqlmock.Rows {
	return sqlmock.NewRows(eventCols).
		AddRow("event-1", "church-1", "Culto de Domingo", nil, nil, time.Now(), nil, time.Now(), time.Now())
}

func newEventRepo(t *testing.T) (*EventRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEventRepository(db), mock
}

// ---------------------------------------------------------------------------
// CreateEvent
// ---------------------------------------------------------------------------

func TestCreateEvent_Success(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.Event{ChurchID: "church-1", Title: "Culto de Domingo", StartsAt: time.Now()}
	if err := repo.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID == "" {
		t.Error("CreateEvent should assign an ID")
	}
}

func TestCreateEvent_DBError(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectExec("INSERT INTO events").
		WillReturnError(errDB)

	event := &models.Event{ChurchID: "church-1", Title: "Culto"}
	if err := repo.CreateEvent(context.Background(), event); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetEventByID
// ---------------------------------------------------------------------------

func TestGetEventByID_Found(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectQuery("SELECT.*FROM events.*WHERE church_id.*AND id").
		WithArgs("church-1", "event-1").
		WillReturnRows(sampleEventRow())

	event, err := repo.GetEventByID(context.Background(), "church-1", "event-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event == nil {
		t.Fatal("expected event, got nil")
	}
	if event.Title != "Culto de Domingo" {
		t.Errorf("Title = %s, want Culto de Domingo", event.Title)
	}
	if event.EndsAt != nil {
		t.Error("EndsAt should stay nil for open-ended events")
	}
}

func TestGetEventByID_NotFound(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectQuery("SELECT.*FROM events.*WHERE church_id.*AND id").
		WillReturnRows(sqlmock.NewRows(eventCols))

	event, err := repo.GetEventByID(context.Background(), "church-1", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Error("expected nil for missing event")
	}
}

// ---------------------------------------------------------------------------
// ListEvents
// ---------------------------------------------------------------------------

func TestListEvents_Success(t *testing.T) {
	repo, mock := newEventRepo(t)
	rows := sqlmock.NewRows(eventCols).
		AddRow("event-2", "church-1", "Conferência", nil, nil, time.Now(), nil, time.Now(), time.Now()).
		AddRow("event-1", "church-1", "Culto de Domingo", nil, nil, time.Now(), nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT.*FROM events.*WHERE church_id.*ORDER BY created_at DESC").
		WithArgs("church-1").
		WillReturnRows(rows)

	events, err := repo.ListEvents(context.Background(), "church-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("len(events) = %d, want 2", len(events))
	}
}

func TestListEvents_Empty(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectQuery("SELECT.*FROM events.*WHERE church_id").
		WillReturnRows(sqlmock.NewRows(eventCols))

	events, err := repo.ListEvents(context.Background(), "church-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestListEvents_DBError(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectQuery("SELECT.*FROM events.*WHERE church_id").
		WillReturnError(errDB)

	if _, err := repo.ListEvents(context.Background(), "church-1"); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// UpdateEvent / DeleteEvent
// ---------------------------------------------------------------------------

func TestUpdateEvent_Success(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectExec("UPDATE events").
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.Event{ID: "event-1", ChurchID: "church-1", Title: "Culto Atualizado", StartsAt: time.Now()}
	if err := repo.UpdateEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteEvent_Success(t *testing.T) {
	repo, mock := newEventRepo(t)
	mock.ExpectExec("DELETE FROM events WHERE church_id").
		WithArgs("church-1", "event-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteEvent(context.Background(), "church-1", "event-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

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

var groupCols = []string{
	"id", "church_id", "name", "description", "leader_id", "meeting_day", "meeting_time",
	"created_at", "updated_at",
}

var groupWithCountCols = append(append([]string{}, groupCols...), "member_count")

// ---------------------------------------------------------------------------
// Row builders
// ---------------------------------------------------------------------------

func sampleGroupRow() *sqlmock.Rows {
	return sqlmock.NewRows(groupCols).
		AddRow("group-1", "church-1", "Célula Norte", nil, nil, nil, nil, time.Now(), time.Now())
}

func newGroupRepo(t *testing.T) (*GroupRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGroupRepository(db), mock
}

// ---------------------------------------------------------------------------
// CreateGroup
// ---------------------------------------------------------------------------

func TestCreateGroup_Success(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectExec("INSERT INTO groups").
		WillReturnResult(sqlmock.NewResult(0, 1))

	group := &models.Group{ChurchID: "church-1", Name: "Célula Norte"}
	if err := repo.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.ID == "" {
		t.Error("CreateGroup should assign an ID")
	}
}

func TestCreateGroup_DBError(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectExec("INSERT INTO groups").
		WillReturnError(errDB)

	group := &models.Group{ChurchID: "church-1", Name: "Célula Norte"}
	if err := repo.CreateGroup(context.Background(), group); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetGroupByID
// ---------------------------------------------------------------------------

func TestGetGroupByID_Found(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectQuery("SELECT.*FROM groups.*WHERE church_id.*AND id").
		WithArgs("church-1", "group-1").
		WillReturnRows(sampleGroupRow())

	group, err := repo.GetGroupByID(context.Background(), "church-1", "group-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group == nil {
		t.Fatal("expected group, got nil")
	}
	if group.Name != "Célula Norte" {
		t.Errorf("Name = %s, want Célula Norte", group.Name)
	}
}

func TestGetGroupByID_NotFound(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectQuery("SELECT.*FROM groups.*WHERE church_id.*AND id").
		WillReturnRows(sqlmock.NewRows(groupCols))

	group, err := repo.GetGroupByID(context.Background(), "church-1", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group != nil {
		t.Error("expected nil for missing group")
	}
}

// ---------------------------------------------------------------------------
// ListGroups — joined against the member-count view
// ---------------------------------------------------------------------------

func TestListGroups_Success(t *testing.T) {
	repo, mock := newGroupRepo(t)
	rows := sqlmock.NewRows(groupWithCountCols).
		AddRow("group-2", "church-1", "Jovens", nil, nil, nil, nil, time.Now(), time.Now(), 12).
		AddRow("group-1", "church-1", "Célula Norte", nil, nil, nil, nil, time.Now(), time.Now(), 0)
	mock.ExpectQuery("SELECT.*FROM groups g.*LEFT JOIN group_member_counts.*ORDER BY g.created_at DESC").
		WithArgs("church-1").
		WillReturnRows(rows)

	groups, err := repo.ListGroups(context.Background(), "church-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].MemberCount != 12 {
		t.Errorf("MemberCount = %d, want 12", groups[0].MemberCount)
	}
	if groups[1].MemberCount != 0 {
		t.Errorf("empty group MemberCount = %d, want 0", groups[1].MemberCount)
	}
}

func TestListGroups_Empty(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectQuery("SELECT.*FROM groups g").
		WillReturnRows(sqlmock.NewRows(groupWithCountCols))

	groups, err := repo.ListGroups(context.Background(), "church-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("len(groups) = %d, want 0", len(groups))
	}
}

func TestListGroups_DBError(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectQuery("SELECT.*FROM groups g").
		WillReturnError(errDB)

	if _, err := repo.ListGroups(context.Background(), "church-1"); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// UpdateGroup / DeleteGroup
// ---------------------------------------------------------------------------

func TestUpdateGroup_Success(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectExec("UPDATE groups").
		WillReturnResult(sqlmock.NewResult(0, 1))

	group := &models.Group{ID: "group-1", ChurchID: "church-1", Name: "Célula Sul"}
	if err := repo.UpdateGroup(context.Background(), group); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteGroup_Success(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectExec("DELETE FROM groups WHERE church_id").
		WithArgs("church-1", "group-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteGroup(context.Background(), "church-1", "group-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Group membership
// ---------------------------------------------------------------------------

func TestAddGroupMember_Success(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectExec("INSERT INTO group_members").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AddGroupMember(context.Background(), "group-1", "member-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddGroupMember_AlreadyMember(t *testing.T) {
	repo, mock := newGroupRepo(t)
	// ON CONFLICT DO NOTHING reports zero rows; the call still succeeds.
	mock.ExpectExec("INSERT INTO group_members").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.AddGroupMember(context.Background(), "group-1", "member-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoveGroupMember_Success(t *testing.T) {
	repo, mock := newGroupRepo(t)
	mock.ExpectExec("DELETE FROM group_members WHERE group_id").
		WithArgs("group-1", "member-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RemoveGroupMember(context.Background(), "group-1", "member-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

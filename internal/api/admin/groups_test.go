package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/account"
)

// ---------------------------------------------------------------------------
// Column definitions for group SQL mocks
// ---------------------------------------------------------------------------

var groupCols = []string{
	"id", "church_id", "name", "description", "leader_id", "meeting_day",
	"meeting_time", "created_at", "updated_at",
}

var groupWithCountCols = append(append([]string{}, groupCols...), "member_count")

func sampleGroupRow() *sqlmock.Rows {
	return sqlmock.NewRows(groupCols).
		AddRow("group-1", "church-1", "Célula Norte", nil, nil, nil, nil, time.Now(), time.Now())
}

func sampleGroupWithCountRow() *sqlmock.Rows {
	return sqlmock.NewRows(groupWithCountCols).
		AddRow("group-1", "church-1", "Célula Norte", nil, nil, nil, nil, time.Now(), time.Now(), 12)
}

func emptyGroupRows() *sqlmock.Rows {
	return sqlmock.NewRows(groupCols)
}

// ---------------------------------------------------------------------------
// Router helper
// ---------------------------------------------------------------------------

func newGroupRouter(t *testing.T, tenant account.Tenant) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h, err := NewGroupHandlers(db)
	if err != nil {
		t.Fatalf("NewGroupHandlers: %v", err)
	}

	r := gin.New()
	r.Use(withTenant(tenant))
	r.GET("/groups", h.ListGroupsHandler())
	r.GET("/groups/:id", h.GetGroupHandler())
	r.POST("/groups", h.CreateGroupHandler())
	r.PUT("/groups/:id", h.UpdateGroupHandler())
	r.DELETE("/groups/:id", h.DeleteGroupHandler())
	r.POST("/groups/:id/members", h.AddGroupMemberHandler())
	r.DELETE("/groups/:id/members/:member_id", h.RemoveGroupMemberHandler())
	return mock, r
}

// ---------------------------------------------------------------------------
// ListGroupsHandler
// ---------------------------------------------------------------------------

func TestListGroups_IncludesMemberCount(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM groups.*LEFT JOIN group_member_counts").
		WithArgs("church-1").
		WillReturnRows(sampleGroupWithCountRow())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/groups", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	groups, ok := resp["groups"].([]interface{})
	if !ok || len(groups) != 1 {
		t.Fatalf("groups = %v, want one entry", resp["groups"])
	}
	group := groups[0].(map[string]interface{})
	if group["member_count"] != float64(12) {
		t.Errorf("member_count = %v, want 12", group["member_count"])
	}
}

func TestListGroups_DBErrorServesEmpty(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM groups").
		WillReturnError(errDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/groups", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on degraded read", w.Code)
	}
	resp := getJSON(w)
	groups, ok := resp["groups"].([]interface{})
	if !ok || len(groups) != 0 {
		t.Errorf("groups = %v, want empty list", resp["groups"])
	}
}

// ---------------------------------------------------------------------------
// CreateGroupHandler
// ---------------------------------------------------------------------------

func TestCreateGroup_Success(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	mock.ExpectExec("INSERT INTO groups").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/groups",
		jsonBody(map[string]interface{}{"name": "Louvor", "meeting_day": "quarta"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: body=%s", w.Code, w.Body.String())
	}
}

func TestCreateGroup_MissingName(t *testing.T) {
	_, r := newGroupRouter(t, memberTenant)

	req := httptest.NewRequest("POST", "/groups", jsonBody(map[string]interface{}{}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---------------------------------------------------------------------------
// UpdateGroupHandler
// ---------------------------------------------------------------------------

func TestUpdateGroup_OmittedFieldsKeepStoredValues(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM groups.*WHERE").
		WithArgs("church-1", "group-1").
		WillReturnRows(sqlmock.NewRows(groupCols).
			AddRow("group-1", "church-1", "Célula Norte", "Estudo bíblico semanal",
				"leader-1", "quarta", nil, time.Now(), time.Now()))
	// A rename must not touch the stored description, leader, or meeting day.
	mock.ExpectExec("UPDATE groups").
		WithArgs("church-1", "group-1", "Célula Sul", "Estudo bíblico semanal",
			"leader-1", "quarta", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("PUT", "/groups/group-1",
		jsonBody(map[string]interface{}{"name": "Célula Sul"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("update changed fields the request did not name: %v", err)
	}
}

// ---------------------------------------------------------------------------
// AddGroupMemberHandler
// ---------------------------------------------------------------------------

func TestAddGroupMember_Success(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM groups.*WHERE").
		WithArgs("church-1", "group-1").
		WillReturnRows(sampleGroupRow())
	mock.ExpectQuery("SELECT.*FROM members.*WHERE").
		WithArgs("church-1", "member-1").
		WillReturnRows(sampleMemberRow())
	mock.ExpectExec("INSERT INTO group_members").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/groups/group-1/members",
		jsonBody(map[string]interface{}{"member_id": "member-1"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
}

func TestAddGroupMember_GroupOutsideChurch(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	// Group belongs to another church, so the scoped lookup comes back empty.
	mock.ExpectQuery("SELECT.*FROM groups.*WHERE").
		WithArgs("church-1", "group-2").
		WillReturnRows(emptyGroupRows())

	req := httptest.NewRequest("POST", "/groups/group-2/members",
		jsonBody(map[string]interface{}{"member_id": "member-1"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAddGroupMember_MemberOutsideChurch(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM groups.*WHERE").
		WithArgs("church-1", "group-1").
		WillReturnRows(sampleGroupRow())
	mock.ExpectQuery("SELECT.*FROM members.*WHERE").
		WithArgs("church-1", "member-9").
		WillReturnRows(emptyMemberRows())

	req := httptest.NewRequest("POST", "/groups/group-1/members",
		jsonBody(map[string]interface{}{"member_id": "member-9"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ---------------------------------------------------------------------------
// RemoveGroupMemberHandler
// ---------------------------------------------------------------------------

func TestRemoveGroupMember_Success(t *testing.T) {
	mock, r := newGroupRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM groups.*WHERE").
		WithArgs("church-1", "group-1").
		WillReturnRows(sampleGroupRow())
	mock.ExpectExec("DELETE FROM group_members").
		WithArgs("group-1", "member-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/groups/group-1/members/member-1", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/middleware"
)

// ---------------------------------------------------------------------------
// Column definitions for church SQL mocks
// ---------------------------------------------------------------------------

var churchCols = []string{"id", "name", "cnpj", "address", "phone", "email", "created_at", "updated_at"}

var churchStatsCols = []string{
	"id", "name", "cnpj", "member_count", "group_count", "event_count",
	"total_income", "total_expense", "balance",
}

func sampleChurchRow() *sqlmock.Rows {
	return sqlmock.NewRows(churchCols).
		AddRow("church-1", "Igreja Central", nil, nil, nil, nil, time.Now(), time.Now())
}

func emptyChurchRows() *sqlmock.Rows {
	return sqlmock.NewRows(churchCols)
}

func sampleChurchStatsRows() *sqlmock.Rows {
	return sqlmock.NewRows(churchStatsCols).
		AddRow("church-1", "Igreja Central", nil, 120, 8, 14, 5000.00, 3200.00, 1800.00).
		AddRow("church-2", "Igreja do Bairro", nil, 0, 0, 0, 0.0, 0.0, 0.0)
}

func newChurchRouter(t *testing.T) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewChurchHandlers(db)

	r := gin.New()
	r.Use(withTenant(masterTenant))
	r.Use(middleware.RequireChurchAccess())
	r.GET("/churches", h.ListChurchesHandler())
	r.GET("/churches/:church_id", h.GetChurchHandler())
	r.POST("/churches", h.CreateChurchHandler())
	r.PUT("/churches/:church_id", h.UpdateChurchHandler())
	r.DELETE("/churches/:church_id", h.DeleteChurchHandler())
	r.POST("/churches/:church_id/assign", h.AssignUserHandler())
	return mock, r
}

// ---------------------------------------------------------------------------
// ListChurchesHandler
// ---------------------------------------------------------------------------

func TestListChurches_IncludesStats(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectQuery("SELECT.*FROM churches.*ORDER BY c.name ASC").
		WillReturnRows(sampleChurchStatsRows())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/churches", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	churches, ok := resp["churches"].([]interface{})
	if !ok || len(churches) != 2 {
		t.Fatalf("churches = %v, want two entries", resp["churches"])
	}
	first := churches[0].(map[string]interface{})
	if first["member_count"] != float64(120) {
		t.Errorf("member_count = %v, want 120", first["member_count"])
	}
	second := churches[1].(map[string]interface{})
	if second["balance"] != float64(0) {
		t.Errorf("inactive church balance = %v, want 0", second["balance"])
	}
}

func TestListChurches_DBError(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectQuery("SELECT.*FROM churches").
		WillReturnError(errDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/churches", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// ---------------------------------------------------------------------------
// CreateChurchHandler
// ---------------------------------------------------------------------------

func TestCreateChurch_Success(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectExec("INSERT INTO churches").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/churches",
		jsonBody(map[string]interface{}{"name": "Igreja Nova"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	church, ok := resp["church"].(map[string]interface{})
	if !ok || church["id"] == "" {
		t.Errorf("church = %v, want created church with id", resp["church"])
	}
}

func TestCreateChurch_MissingName(t *testing.T) {
	_, r := newChurchRouter(t)

	req := httptest.NewRequest("POST", "/churches", jsonBody(map[string]interface{}{}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---------------------------------------------------------------------------
// UpdateChurchHandler / DeleteChurchHandler
// ---------------------------------------------------------------------------

func TestUpdateChurch_NotFound(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectQuery("SELECT.*FROM churches.*WHERE id").
		WithArgs("church-9").
		WillReturnRows(emptyChurchRows())

	req := httptest.NewRequest("PUT", "/churches/church-9",
		jsonBody(map[string]interface{}{"name": "Igreja Renomeada"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateChurch_OmittedFieldsKeepStoredValues(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectQuery("SELECT.*FROM churches.*WHERE id").
		WithArgs("church-1").
		WillReturnRows(sqlmock.NewRows(churchCols).
			AddRow("church-1", "Igreja Central", "12345678000199", "Rua das Flores, 10",
				nil, nil, time.Now(), time.Now()))
	// A rename must not touch the stored CNPJ or address.
	mock.ExpectExec("UPDATE churches").
		WithArgs("church-1", "Igreja Renovada", "12345678000199", "Rua das Flores, 10",
			nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("PUT", "/churches/church-1",
		jsonBody(map[string]interface{}{"name": "Igreja Renovada"}))
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

func TestDeleteChurch_Success(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectExec("DELETE FROM churches").
		WithArgs("church-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/churches/church-1", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// ---------------------------------------------------------------------------
// AssignUserHandler
// ---------------------------------------------------------------------------

func TestAssignUser_Success(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectQuery("SELECT.*FROM churches.*WHERE id").
		WithArgs("church-1").
		WillReturnRows(sampleChurchRow())
	mock.ExpectQuery("SELECT.*FROM profiles.*WHERE id").
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow("user-2", "pedro@example.com", "Pedro", nil, nil, nil, nil, time.Now(), time.Now()))
	mock.ExpectExec("UPDATE profiles SET church_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/churches/church-1/assign",
		jsonBody(map[string]interface{}{"user_id": "user-2", "role": "leader"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	assignment, ok := resp["assignment"].(map[string]interface{})
	if !ok {
		t.Fatalf("response missing 'assignment' key: %v", resp)
	}
	if assignment["role"] != "leader" || assignment["church_id"] != "church-1" {
		t.Errorf("assignment = %v, want leader role scoped to church-1", assignment)
	}
}

func TestAssignUser_MasterRoleRejected(t *testing.T) {
	_, r := newChurchRouter(t)

	req := httptest.NewRequest("POST", "/churches/church-1/assign",
		jsonBody(map[string]interface{}{"user_id": "user-2", "role": "master"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAssignUser_UnknownRole(t *testing.T) {
	_, r := newChurchRouter(t)

	req := httptest.NewRequest("POST", "/churches/church-1/assign",
		jsonBody(map[string]interface{}{"user_id": "user-2", "role": "owner"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAssignUser_UserNotFound(t *testing.T) {
	mock, r := newChurchRouter(t)

	mock.ExpectQuery("SELECT.*FROM churches.*WHERE id").
		WithArgs("church-1").
		WillReturnRows(sampleChurchRow())
	mock.ExpectQuery("SELECT.*FROM profiles.*WHERE id").
		WithArgs("user-9").
		WillReturnRows(sqlmock.NewRows(profileCols))

	req := httptest.NewRequest("POST", "/churches/church-1/assign",
		jsonBody(map[string]interface{}{"user_id": "user-9", "role": "member"}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

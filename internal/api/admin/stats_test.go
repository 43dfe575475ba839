package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/account"
)

func newStatsRouter(t *testing.T, tenant account.Tenant) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewStatsHandlers(db)

	r := gin.New()
	r.Use(withTenant(tenant))
	r.GET("/stats/dashboard", h.DashboardHandler())
	return mock, r
}

func TestDashboard_MasterSeesAllChurches(t *testing.T) {
	mock, r := newStatsRouter(t, masterTenant)

	mock.ExpectQuery("SELECT.*FROM churches.*ORDER BY c.name ASC").
		WillReturnRows(sampleChurchStatsRows())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stats/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	stats, ok := resp["stats"].([]interface{})
	if !ok || len(stats) != 2 {
		t.Errorf("stats = %v, want one row per church", resp["stats"])
	}
}

func TestDashboard_ScopedUserSeesOwnChurch(t *testing.T) {
	mock, r := newStatsRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM churches.*WHERE c.id").
		WithArgs("church-1").
		WillReturnRows(sqlmock.NewRows(churchStatsCols).
			AddRow("church-1", "Igreja Central", nil, 120, 8, 14, 5000.00, 3200.00, 1800.00))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stats/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	stats, ok := resp["stats"].([]interface{})
	if !ok || len(stats) != 1 {
		t.Fatalf("stats = %v, want exactly one row", resp["stats"])
	}
	row := stats[0].(map[string]interface{})
	if row["id"] != "church-1" || row["member_count"] != float64(120) {
		t.Errorf("row = %v, want church-1 with 120 members", row)
	}
}

func TestDashboard_DegradedReadServesZeroes(t *testing.T) {
	mock, r := newStatsRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM churches.*WHERE c.id").
		WillReturnError(errDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stats/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on degraded read", w.Code)
	}
	resp := getJSON(w)
	stats := resp["stats"].([]interface{})
	row := stats[0].(map[string]interface{})
	if row["member_count"] != float64(0) {
		t.Errorf("member_count = %v, want 0", row["member_count"])
	}
}

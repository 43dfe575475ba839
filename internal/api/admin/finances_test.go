package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/account"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
)

// ---------------------------------------------------------------------------
// Column definitions for finance SQL mocks
// ---------------------------------------------------------------------------

var financeCols = []string{
	"id", "church_id", "type", "category", "description", "amount", "date",
	"created_at", "updated_at",
}

var financeStatsCols = []string{"church_id", "total_income", "total_expense", "balance"}

func sampleFinanceRow() *sqlmock.Rows {
	return sqlmock.NewRows(financeCols).
		AddRow("finance-1", "church-1", models.FinanceTypeIncome, nil, "Dízimo",
			150.00, time.Now(), time.Now(), time.Now())
}

func newFinanceRouter(t *testing.T, tenant account.Tenant) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h, err := NewFinanceHandlers(db)
	if err != nil {
		t.Fatalf("NewFinanceHandlers: %v", err)
	}

	r := gin.New()
	r.Use(withTenant(tenant))
	r.GET("/finances", h.ListFinancesHandler())
	r.GET("/finances/stats", h.FinanceStatsHandler())
	r.GET("/finances/:id", h.GetFinanceHandler())
	r.POST("/finances", h.CreateFinanceHandler())
	r.PUT("/finances/:id", h.UpdateFinanceHandler())
	r.DELETE("/finances/:id", h.DeleteFinanceHandler())
	return mock, r
}

// ---------------------------------------------------------------------------
// ListFinancesHandler
// ---------------------------------------------------------------------------

func TestListFinances_Success(t *testing.T) {
	mock, r := newFinanceRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM finances.*WHERE church_id").
		WithArgs("church-1").
		WillReturnRows(sampleFinanceRow())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/finances", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	finances, ok := resp["finances"].([]interface{})
	if !ok || len(finances) != 1 {
		t.Errorf("finances = %v, want one entry", resp["finances"])
	}
}

func TestListFinances_DBErrorServesEmpty(t *testing.T) {
	mock, r := newFinanceRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM finances").
		WillReturnError(errDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/finances", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on degraded read", w.Code)
	}
}

// ---------------------------------------------------------------------------
// FinanceStatsHandler
// ---------------------------------------------------------------------------

func TestFinanceStats_Success(t *testing.T) {
	mock, r := newFinanceRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM church_finance_stats").
		WithArgs("church-1").
		WillReturnRows(sqlmock.NewRows(financeStatsCols).
			AddRow("church-1", 1200.00, 500.00, 700.00))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/finances/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	stats := resp["stats"].(map[string]interface{})
	if stats["balance"] != float64(700) {
		t.Errorf("balance = %v, want 700", stats["balance"])
	}
}

func TestFinanceStats_NoRecordsReportsZeroes(t *testing.T) {
	mock, r := newFinanceRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM church_finance_stats").
		WithArgs("church-1").
		WillReturnRows(sqlmock.NewRows(financeStatsCols))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/finances/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	stats := resp["stats"].(map[string]interface{})
	if stats["balance"] != float64(0) || stats["total_income"] != float64(0) {
		t.Errorf("stats = %v, want zeroed totals", stats)
	}
}

// ---------------------------------------------------------------------------
// CreateFinanceHandler
// ---------------------------------------------------------------------------

func TestCreateFinance_Success(t *testing.T) {
	mock, r := newFinanceRouter(t, memberTenant)

	mock.ExpectExec("INSERT INTO finances").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/finances", jsonBody(map[string]interface{}{
		"type":        models.FinanceTypeExpense,
		"description": "Aluguel do salão",
		"amount":      950.00,
		"date":        "2026-08-01",
	}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: body=%s", w.Code, w.Body.String())
	}
}

func TestCreateFinance_InvalidType(t *testing.T) {
	_, r := newFinanceRouter(t, memberTenant)

	req := httptest.NewRequest("POST", "/finances", jsonBody(map[string]interface{}{
		"type":        "transfer",
		"description": "x",
		"amount":      10.00,
		"date":        "2026-08-01",
	}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateFinance_NegativeAmount(t *testing.T) {
	_, r := newFinanceRouter(t, memberTenant)

	req := httptest.NewRequest("POST", "/finances", jsonBody(map[string]interface{}{
		"type":        models.FinanceTypeExpense,
		"description": "x",
		"amount":      -10.00,
		"date":        "2026-08-01",
	}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---------------------------------------------------------------------------
// UpdateFinanceHandler
// ---------------------------------------------------------------------------

func TestUpdateFinance_OmittedCategoryKeepsStoredValue(t *testing.T) {
	mock, r := newFinanceRouter(t, memberTenant)

	mock.ExpectQuery("SELECT.*FROM finances.*WHERE").
		WithArgs("church-1", "finance-1").
		WillReturnRows(sqlmock.NewRows(financeCols).
			AddRow("finance-1", "church-1", models.FinanceTypeIncome, "Dízimos",
				"Dízimo mensal", 150.00, time.Now(), time.Now(), time.Now()))
	mock.ExpectExec("UPDATE finances").
		WithArgs("church-1", "finance-1", models.FinanceTypeIncome, "Dízimos",
			"Dízimo de setembro", 180.00, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("PUT", "/finances/finance-1", jsonBody(map[string]interface{}{
		"type":        models.FinanceTypeIncome,
		"description": "Dízimo de setembro",
		"amount":      180.00,
		"date":        "2026-09-01",
	}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("update dropped the stored category: %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeleteFinanceHandler
// ---------------------------------------------------------------------------

func TestDeleteFinance_Success(t *testing.T) {
	mock, r := newFinanceRouter(t, memberTenant)

	mock.ExpectExec("DELETE FROM finances").
		WithArgs("church-1", "finance-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/finances/finance-1", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

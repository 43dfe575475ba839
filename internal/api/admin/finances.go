// finances.go implements handlers for finance record CRUD operations and per-church totals.
package admin

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/cache"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
)

// FinanceHandlers handles finance record management endpoints
type FinanceHandlers struct {
	financeRepo *repositories.FinanceRepository
	listCache   *cache.ListCache[*models.Finance]
}

// NewFinanceHandlers creates a new FinanceHandlers instance
func NewFinanceHandlers(db *sql.DB) (*FinanceHandlers, error) {
	listCache, err := cache.NewListCache[*models.Finance]("finances", 0)
	if err != nil {
		return nil, err
	}
	return &FinanceHandlers{
		financeRepo: repositories.NewFinanceRepository(db),
		listCache:   listCache,
	}, nil
}

type financeRequest struct {
	Type        string  `json:"type" binding:"required"`
	Category    *string `json:"category"`
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
}

// @Summary      List finance records
// @Description  Get all finance records of the scoped church, newest first. A degraded read returns an empty list rather than an error.
// @Tags         Finances
// @Security     Bearer
// @Produce      json
// @Param        church_id  query  string  false  "Church to list (master only)"
// @Success      200  {object}  map[string]interface{}  "finances: []models.Finance"
// @Router       /api/v1/finances [get]
// ListFinancesHandler lists the scoped church's finance records
// GET /api/v1/finances
func (h *FinanceHandlers) ListFinancesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if cached, hit := h.listCache.Get(churchID); hit {
			c.JSON(http.StatusOK, gin.H{"finances": cached})
			return
		}

		finances, err := h.financeRepo.ListFinances(c.Request.Context(), churchID)
		if err != nil {
			slog.Error("finance list failed, serving empty", "church_id", churchID, "error", err)
			c.JSON(http.StatusOK, gin.H{"finances": []*models.Finance{}})
			return
		}

		h.listCache.Put(churchID, finances)
		c.JSON(http.StatusOK, gin.H{"finances": finances})
	}
}

// @Summary      Finance totals
// @Description  Get income, expense, and balance totals for the scoped church from the aggregate view. A church with no records reports zeroes.
// @Tags         Finances
// @Security     Bearer
// @Produce      json
// @Param        church_id  query  string  false  "Church to read (master only)"
// @Success      200  {object}  map[string]interface{}  "stats: models.FinanceStats"
// @Router       /api/v1/finances/stats [get]
// FinanceStatsHandler returns the scoped church's finance totals
// GET /api/v1/finances/stats
func (h *FinanceHandlers) FinanceStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		stats, err := h.financeRepo.GetFinanceStats(c.Request.Context(), churchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o resumo financeiro"})
			return
		}
		// No rows yet: report zeroes instead of 404 so the dashboard renders.
		if stats == nil {
			stats = &models.FinanceStats{ChurchID: churchID}
		}

		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

// @Summary      Get finance record
// @Description  Retrieve a single finance record of the scoped church
// @Tags         Finances
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Finance record ID"
// @Success      200  {object}  map[string]interface{}  "finance: models.Finance"
// @Failure      404  {object}  map[string]interface{}  "Record not found in the scoped church"
// @Router       /api/v1/finances/{id} [get]
// GetFinanceHandler retrieves a single finance record
// GET /api/v1/finances/:id
func (h *FinanceHandlers) GetFinanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		finance, err := h.financeRepo.GetFinanceByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o lançamento"})
			return
		}
		if finance == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lançamento não encontrado"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"finance": finance})
	}
}

// @Summary      Create finance record
// @Description  Create an income ("entrada") or expense ("saida") record in the scoped church. Amount must be positive; the type carries the direction.
// @Tags         Finances
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  financeRequest  true  "Finance payload"
// @Success      201  {object}  map[string]interface{}  "finance: models.Finance"
// @Failure      400  {object}  map[string]interface{}  "Invalid payload"
// @Router       /api/v1/finances [post]
// CreateFinanceHandler creates a finance record in the scoped church
// POST /api/v1/finances
func (h *FinanceHandlers) CreateFinanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		var req financeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do lançamento inválidos"})
			return
		}
		if !models.ValidFinanceType(req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de lançamento inválido"})
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data do lançamento inválida"})
			return
		}

		finance := &models.Finance{
			ChurchID:    churchID,
			Type:        req.Type,
			Category:    req.Category,
			Description: req.Description,
			Amount:      req.Amount,
			Date:        date,
		}

		if err := h.financeRepo.CreateFinance(c.Request.Context(), finance); err != nil {
			slog.Error("finance create failed", "church_id", churchID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar o lançamento"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusCreated, gin.H{"finance": finance})
	}
}

// @Summary      Update finance record
// @Description  Update an existing finance record of the scoped church
// @Tags         Finances
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string          true  "Finance record ID"
// @Param        request  body  financeRequest  true  "Finance payload"
// @Success      200  {object}  map[string]interface{}  "finance: models.Finance"
// @Failure      404  {object}  map[string]interface{}  "Record not found in the scoped church"
// @Router       /api/v1/finances/{id} [put]
// UpdateFinanceHandler updates a finance record
// PUT /api/v1/finances/:id
func (h *FinanceHandlers) UpdateFinanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		finance, err := h.financeRepo.GetFinanceByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o lançamento"})
			return
		}
		if finance == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lançamento não encontrado"})
			return
		}

		var req financeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do lançamento inválidos"})
			return
		}
		if !models.ValidFinanceType(req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de lançamento inválido"})
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data do lançamento inválida"})
			return
		}

		// Only the fields named in the request change; the optional
		// category keeps its stored value when omitted.
		finance.Type = req.Type
		if req.Category != nil {
			finance.Category = req.Category
		}
		finance.Description = req.Description
		finance.Amount = req.Amount
		finance.Date = date

		if err := h.financeRepo.UpdateFinance(c.Request.Context(), finance); err != nil {
			slog.Error("finance update failed", "finance_id", finance.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar o lançamento"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"finance": finance})
	}
}

// @Summary      Delete finance record
// @Description  Delete a finance record from the scoped church
// @Tags         Finances
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Finance record ID"
// @Success      200  {object}  map[string]interface{}  "Deletion confirmation"
// @Router       /api/v1/finances/{id} [delete]
// DeleteFinanceHandler deletes a finance record
// DELETE /api/v1/finances/:id
func (h *FinanceHandlers) DeleteFinanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if err := h.financeRepo.DeleteFinance(c.Request.Context(), churchID, c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover o lançamento"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"message": "Lançamento removido"})
	}
}

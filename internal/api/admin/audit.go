// audit.go implements master-only handlers for browsing the audit trail.
package admin

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
)

// AuditHandlers handles audit log browsing endpoints
type AuditHandlers struct {
	auditRepo *repositories.AuditRepository
}

// NewAuditHandlers creates a new AuditHandlers instance
func NewAuditHandlers(db *sql.DB) *AuditHandlers {
	return &AuditHandlers{
		auditRepo: repositories.NewAuditRepository(db),
	}
}

// @Summary      List audit logs
// @Description  Get a paginated, filterable view of the audit trail, newest first
// @Tags         Audit
// @Security     Bearer
// @Produce      json
// @Param        church_id  query  string  false  "Filter by church"
// @Param        user_id    query  string  false  "Filter by acting user"
// @Param        action     query  string  false  "Filter by action, e.g. POST /api/v1/members"
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        per_page   query  int     false  "Items per page, max 100 (default 50)"
// @Success      200  {object}  map[string]interface{}  "logs: []models.AuditLog, pagination: {page, per_page, total}"
// @Failure      403  {object}  map[string]interface{}  "Caller is not a master"
// @Router       /api/v1/audit-logs [get]
// ListAuditLogsHandler lists audit log entries with filters and pagination
// GET /api/v1/audit-logs?church_id=&user_id=&action=&page=1&per_page=50
func (h *AuditHandlers) ListAuditLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

		if page < 1 {
			page = 1
		}
		if perPage < 1 || perPage > 100 {
			perPage = 50
		}

		var filters repositories.AuditFilters
		if v := c.Query("church_id"); v != "" {
			filters.ChurchID = &v
		}
		if v := c.Query("user_id"); v != "" {
			filters.UserID = &v
		}
		if v := c.Query("action"); v != "" {
			filters.Action = &v
		}

		logs, total, err := h.auditRepo.ListAuditLogs(c.Request.Context(), filters, perPage, (page-1)*perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar os registros de auditoria"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"logs": logs,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// stats.go implements the dashboard statistics endpoint.
package admin

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
	"github.com/igreja-admin/igreja-admin/internal/middleware"
)

// StatsHandlers handles dashboard statistics endpoints
type StatsHandlers struct {
	statsRepo *repositories.StatsRepository
}

// NewStatsHandlers creates a new StatsHandlers instance
func NewStatsHandlers(db *sql.DB) *StatsHandlers {
	return &StatsHandlers{
		statsRepo: repositories.NewStatsRepository(db),
	}
}

// @Summary      Dashboard statistics
// @Description  Get the aggregate counts and finance totals driving the dashboard. Masters receive one row per church; everyone else receives the single row for their own church. A degraded read returns zeroed stats so the dashboard keeps rendering.
// @Tags         Stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "stats: []models.ChurchWithStats"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/v1/stats/dashboard [get]
// DashboardHandler returns per-church aggregate statistics for the session's scope
// GET /api/v1/stats/dashboard
func (h *StatsHandlers) DashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := middleware.TenantFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    auth.UserMessage(auth.ErrUnauthenticated),
				"redirect": "/login",
			})
			return
		}

		if tenant.AllChurches {
			stats, err := h.statsRepo.ListChurchStats(c.Request.Context())
			if err != nil {
				slog.Error("dashboard stats failed, serving empty", "error", err)
				stats = []models.ChurchWithStats{}
			}
			c.JSON(http.StatusOK, gin.H{"stats": stats})
			return
		}

		stats, err := h.statsRepo.GetChurchStats(c.Request.Context(), tenant.ChurchID)
		if err != nil {
			slog.Error("dashboard stats failed, serving zeroes", "church_id", tenant.ChurchID, "error", err)
		}
		if stats == nil {
			stats = &models.ChurchWithStats{ID: tenant.ChurchID}
		}

		c.JSON(http.StatusOK, gin.H{"stats": []models.ChurchWithStats{*stats}})
	}
}

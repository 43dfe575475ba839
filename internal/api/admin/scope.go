// scope.go holds tenant-scoping helpers shared by the entity handlers.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/middleware"
)

// resolveScope returns the church id every entity query must be pinned to.
// Regular users are always scoped to their own church regardless of what the
// request asks for; masters pick a church via the church_id query parameter.
// On failure it writes the error response and returns ok=false.
func resolveScope(c *gin.Context) (string, bool) {
	tenant, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    auth.UserMessage(auth.ErrUnauthenticated),
			"redirect": "/login",
		})
		return "", false
	}

	scope := tenant.Scope(c.Query("church_id"))
	if scope == "" {
		// Only a master session reaches this point: their tenant carries no
		// church of its own, so a list or write needs an explicit selection.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selecione uma igreja"})
		return "", false
	}

	return scope, true
}

// guard.go implements the role and tenant guards that run after AuthMiddleware.
//
// Failed guards return JSON with a "redirect" hint instead of issuing HTTP
// redirects: the API serves a single-page frontend, which performs the
// navigation itself after reading the hint.
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/account"
	"github.com/igreja-admin/igreja-admin/internal/auth"
)

// RequireRole rejects sessions that do not hold the required role.
// Role implication applies: master passes every check, admin passes
// leader/collaborator/member checks.
func RequireRole(required auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesVal, exists := c.Get(RolesKey)
		if !exists {
			abortForbidden(c, "/admin")
			return
		}

		roles, ok := rolesVal.([]string)
		if !ok || !auth.HasRole(roles, required) {
			abortForbidden(c, "/admin")
			return
		}

		c.Next()
	}
}

// RequireManagement rejects sessions that cannot modify tenant records.
// Members can read; admins, leaders, and collaborators (and master) can write.
func RequireManagement() gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesVal, exists := c.Get(RolesKey)
		if !exists {
			abortForbidden(c, "/admin")
			return
		}

		roles, ok := rolesVal.([]string)
		if !ok || !auth.CanManage(roles) {
			abortForbidden(c, "/admin")
			return
		}

		c.Next()
	}
}

// TenantMiddleware resolves the church scope for the session and stores it in
// context. Authenticated accounts without a church assignment get 403 with an
// "unassigned" redirect hint; they must wait for an administrator to link them.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := SessionProfile(c)
		if profile == nil {
			abortUnauthenticated(c)
			return
		}

		tenant, err := account.ResolveTenant(profile)
		if err != nil {
			if errors.Is(err, auth.ErrUnassigned) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":    auth.UserMessage(auth.ErrUnassigned),
					"redirect": "/unassigned",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Erro ao resolver a igreja da sessão",
			})
			return
		}

		c.Set(TenantKey, tenant)
		c.Next()
	}
}

// RequireChurchAccess pins the :church_id route parameter to the session's
// tenant. Masters reach any church; everyone else only their own.
func RequireChurchAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := TenantFrom(c)
		if !ok {
			abortForbidden(c, "/admin")
			return
		}

		churchID := c.Param("church_id")
		if churchID != "" && !tenant.CanAccess(churchID) {
			abortForbidden(c, "/admin")
			return
		}

		c.Next()
	}
}

func abortForbidden(c *gin.Context, redirect string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error":    auth.UserMessage(auth.ErrForbidden),
		"redirect": redirect,
	})
}

// Package middleware provides Gin HTTP middleware for authentication,
// authorization, rate limiting, security headers, and audit logging.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Security → RateLimit → Auth → Guard → Audit → Handler
//
// Security headers run first so they appear on all responses including errors.
// Rate limiting runs before auth to block brute-force attacks before any DB work.
// Auth populates the session context; the guards read from it. Audit logging
// runs after the guards so only authorized mutations are recorded.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/account"
	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
)

// Context keys set by AuthMiddleware and read by guards and handlers.
const (
	ProfileKey = "profile"
	UserIDKey  = "user_id"
	RolesKey   = "roles"
	TenantKey  = "tenant"
)

// AuthMiddleware validates the Bearer JWT and loads the session profile with
// its role assignments into the gin context. Requests without a valid session
// get 401 plus a redirect hint so the frontend can send the user to login.
func AuthMiddleware(profileRepo *repositories.ProfileRepository, roleRepo *repositories.RoleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		profile, err := profileRepo.GetProfileByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Erro ao carregar a sessão",
			})
			return
		}

		if profile == nil {
			// Token outlived the account.
			abortUnauthenticated(c)
			return
		}

		roles, err := roleRepo.ListAssignmentsByUser(c.Request.Context(), profile.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Erro ao carregar a sessão",
			})
			return
		}

		session := &models.ProfileWithRoles{Profile: *profile, Roles: roles}

		c.Set(ProfileKey, session)
		c.Set(UserIDKey, session.ID)
		c.Set(RolesKey, session.RoleNames())

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    auth.UserMessage(auth.ErrUnauthenticated),
		"redirect": "/login",
	})
}

// SessionProfile returns the profile loaded by AuthMiddleware, or nil when the
// request is unauthenticated (e.g. on routes using optional auth).
func SessionProfile(c *gin.Context) *models.ProfileWithRoles {
	v, ok := c.Get(ProfileKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*models.ProfileWithRoles)
	return profile
}

// TenantFrom returns the tenant scope resolved by TenantMiddleware.
// The second return value is false when no tenant is in context.
func TenantFrom(c *gin.Context) (account.Tenant, bool) {
	v, ok := c.Get(TenantKey)
	if !ok {
		return account.Tenant{}, false
	}
	tenant, ok := v.(account.Tenant)
	return tenant, ok
}

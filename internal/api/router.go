// Package api wires together all HTTP routes for the church administration backend.
//
// Route grouping philosophy:
//   - /api/v1/auth holds the public authentication endpoints (register, login,
//     Google sign-in). They are rate limited more aggressively than the rest of
//     the API because they are the only routes reachable without a session.
//   - Every entity route (/members, /groups, /events, /finances) sits behind
//     the session middleware plus the tenant resolver, so a handler never sees
//     a request without an effective church scope.
//   - /churches and /audit-logs are master-only management surfaces.
//
// Guard failures answer with a JSON body carrying a "redirect" hint ("/login",
// "/admin", "/unassigned"); the SPA performs the navigation itself.
package api

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/api/admin"
	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/config"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
	"github.com/igreja-admin/igreja-admin/internal/middleware"
)

// Version is the reported API version.
const Version = "0.1.0"

// BackgroundServices holds references to background resources that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	rateLimiters []*middleware.RateLimiter
}

// Shutdown stops all background goroutines. It should be called after the HTTP
// server has been shut down so that in-flight requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Initialize repositories shared by the middleware chain
	profileRepo := repositories.NewProfileRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Initialize handlers
	authHandlers, err := admin.NewAuthHandlers(cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize auth handlers: %v", err)
	}
	memberHandlers, err := admin.NewMemberHandlers(db)
	if err != nil {
		log.Fatalf("Failed to initialize member handlers: %v", err)
	}
	groupHandlers, err := admin.NewGroupHandlers(db)
	if err != nil {
		log.Fatalf("Failed to initialize group handlers: %v", err)
	}
	eventHandlers, err := admin.NewEventHandlers(db)
	if err != nil {
		log.Fatalf("Failed to initialize event handlers: %v", err)
	}
	financeHandlers, err := admin.NewFinanceHandlers(db)
	if err != nil {
		log.Fatalf("Failed to initialize finance handlers: %v", err)
	}
	churchHandlers := admin.NewChurchHandlers(db)
	statsHandlers := admin.NewStatsHandlers(db)
	auditHandlers := admin.NewAuditHandlers(db)

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Readiness check endpoint
	router.GET("/ready", readinessHandler(db))

	// API version
	router.GET("/version", versionHandler())

	// Rate limiters (stopped via BackgroundServices.Shutdown)
	authRateLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
	generalRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())

	apiV1 := router.Group("/api/v1")
	{
		// Public authentication endpoints (no auth required, but rate limited)
		authGroup := apiV1.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware(authRateLimiter))
		{
			authGroup.POST("/register", authHandlers.RegisterHandler())
			authGroup.POST("/login", authHandlers.LoginHandler())
			authGroup.GET("/google", authHandlers.GoogleLoginHandler())
			authGroup.GET("/google/callback", authHandlers.GoogleCallbackHandler())
		}

		// Authenticated endpoints
		authenticatedGroup := apiV1.Group("")
		authenticatedGroup.Use(middleware.AuthMiddleware(profileRepo, roleRepo))
		authenticatedGroup.Use(middleware.RateLimitMiddleware(generalRateLimiter))
		{
			// Session endpoints work even for unassigned accounts, so they sit
			// outside the tenant resolver.
			authenticatedGroup.POST("/auth/refresh", authHandlers.RefreshHandler())
			authenticatedGroup.GET("/auth/me", authHandlers.MeHandler())
			authenticatedGroup.POST("/auth/logout", authHandlers.LogoutHandler())

			// Tenant-scoped entity endpoints. Reads are open to every role in
			// the church; writes require a management role.
			tenantGroup := authenticatedGroup.Group("")
			tenantGroup.Use(middleware.TenantMiddleware())
			tenantGroup.Use(middleware.AuditMiddleware(auditRepo, &cfg.Audit))
			{
				tenantGroup.GET("/stats/dashboard", statsHandlers.DashboardHandler())

				tenantGroup.GET("/members", memberHandlers.ListMembersHandler())
				tenantGroup.GET("/members/:id", memberHandlers.GetMemberHandler())
				tenantGroup.POST("/members",
					middleware.RequireManagement(),
					memberHandlers.CreateMemberHandler())
				tenantGroup.PUT("/members/:id",
					middleware.RequireManagement(),
					memberHandlers.UpdateMemberHandler())
				tenantGroup.DELETE("/members/:id",
					middleware.RequireManagement(),
					memberHandlers.DeleteMemberHandler())

				tenantGroup.GET("/groups", groupHandlers.ListGroupsHandler())
				tenantGroup.GET("/groups/:id", groupHandlers.GetGroupHandler())
				tenantGroup.POST("/groups",
					middleware.RequireManagement(),
					groupHandlers.CreateGroupHandler())
				tenantGroup.PUT("/groups/:id",
					middleware.RequireManagement(),
					groupHandlers.UpdateGroupHandler())
				tenantGroup.DELETE("/groups/:id",
					middleware.RequireManagement(),
					groupHandlers.DeleteGroupHandler())
				tenantGroup.POST("/groups/:id/members",
					middleware.RequireManagement(),
					groupHandlers.AddGroupMemberHandler())
				tenantGroup.DELETE("/groups/:id/members/:member_id",
					middleware.RequireManagement(),
					groupHandlers.RemoveGroupMemberHandler())

				tenantGroup.GET("/events", eventHandlers.ListEventsHandler())
				tenantGroup.GET("/events/:id", eventHandlers.GetEventHandler())
				tenantGroup.POST("/events",
					middleware.RequireManagement(),
					eventHandlers.CreateEventHandler())
				tenantGroup.PUT("/events/:id",
					middleware.RequireManagement(),
					eventHandlers.UpdateEventHandler())
				tenantGroup.DELETE("/events/:id",
					middleware.RequireManagement(),
					eventHandlers.DeleteEventHandler())

				tenantGroup.GET("/finances", financeHandlers.ListFinancesHandler())
				tenantGroup.GET("/finances/stats", financeHandlers.FinanceStatsHandler())
				tenantGroup.GET("/finances/:id", financeHandlers.GetFinanceHandler())
				tenantGroup.POST("/finances",
					middleware.RequireManagement(),
					financeHandlers.CreateFinanceHandler())
				tenantGroup.PUT("/finances/:id",
					middleware.RequireManagement(),
					financeHandlers.UpdateFinanceHandler())
				tenantGroup.DELETE("/finances/:id",
					middleware.RequireManagement(),
					financeHandlers.DeleteFinanceHandler())
			}

			// Master-only management endpoints. The church param guard pins
			// :church_id to the session's tenant so the routes stay safe if
			// they are ever opened beyond the master role.
			masterGroup := authenticatedGroup.Group("")
			masterGroup.Use(middleware.RequireRole(auth.RoleMaster))
			masterGroup.Use(middleware.TenantMiddleware())
			masterGroup.Use(middleware.RequireChurchAccess())
			masterGroup.Use(middleware.AuditMiddleware(auditRepo, &cfg.Audit))
			{
				masterGroup.GET("/churches", churchHandlers.ListChurchesHandler())
				masterGroup.GET("/churches/:church_id", churchHandlers.GetChurchHandler())
				masterGroup.POST("/churches", churchHandlers.CreateChurchHandler())
				masterGroup.PUT("/churches/:church_id", churchHandlers.UpdateChurchHandler())
				masterGroup.DELETE("/churches/:church_id", churchHandlers.DeleteChurchHandler())
				masterGroup.POST("/churches/:church_id/assign", churchHandlers.AssignUserHandler())

				masterGroup.GET("/audit-logs", auditHandlers.ListAuditLogsHandler())
			}
		}
	}

	// Catch-all for unknown routes: JSON instead of gin's default empty body
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rota não encontrada"})
	})

	background := &BackgroundServices{
		rateLimiters: []*middleware.RateLimiter{authRateLimiter, generalRateLimiter},
	}

	return router, background
}

// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic. Checks database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: database not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service.
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		// Check database connection
		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     Version,
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		// Log the request
		if cfg.Logging.Format == "json" {
			logJSON(c, latency, path, query)
		} else {
			logText(c, latency, path, query)
		}
	}
}

// logJSON logs a request as a JSON-structured slog record.
func logJSON(c *gin.Context, latency time.Duration, path, query string) {
	requestID, _ := c.Get(middleware.RequestIDKey)
	slog.LogAttrs(
		c.Request.Context(),
		slog.LevelInfo,
		"http request",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("query", query),
		slog.Int("status", c.Writer.Status()),
		slog.Int("size", c.Writer.Size()),
		slog.Duration("latency", latency),
		slog.String("ip", c.ClientIP()),
		slog.String("request_id", fmt.Sprintf("%v", requestID)),
		slog.String("user_agent", c.Request.UserAgent()),
	)
}

// logText logs a request as a human-readable slog text record.
func logText(c *gin.Context, latency time.Duration, path, query string) {
	// reuse the same structured output; slog will emit text format when the global
	// handler is a TextHandler (configured in telemetry.SetupLogger).
	logJSON(c, latency, path, query)
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

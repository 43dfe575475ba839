// audit.go provides Gin middleware that records authenticated write
// operations to the audit_logs table.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/config"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
	"github.com/igreja-admin/igreja-admin/internal/safego"
	"github.com/igreja-admin/igreja-admin/internal/telemetry"
)

// auditResourceTypes maps URL path fragments to audit resource types.
// Order matters: /groups precedes /members so group-membership routes
// (/groups/:id/members) classify as group operations.
var auditResourceTypes = []struct {
	fragment string
	resource string
}{
	{"/groups", "group"},
	{"/members", "member"},
	{"/events", "event"},
	{"/finances", "finance"},
	{"/churches", "church"},
	{"/stats", "stats"},
	{"/auth", "session"},
}

// auditQueueSize bounds the number of audit entries waiting for the database.
const auditQueueSize = 256

// auditWriter drains queued audit entries on a single background goroutine.
type auditWriter struct {
	repo  *repositories.AuditRepository
	queue chan *models.AuditLog
}

func newAuditWriter(repo *repositories.AuditRepository) *auditWriter {
	w := &auditWriter{
		repo:  repo,
		queue: make(chan *models.AuditLog, auditQueueSize),
	}
	safego.Go(w.run)
	return w
}

func (w *auditWriter) run() {
	for entry := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.repo.CreateAuditLog(ctx, entry); err != nil {
			slog.Error("failed to write audit log", "action", entry.Action, "error", err)
		}
		cancel()
	}
}

// enqueue never blocks the request path. When the queue is full the entry is
// dropped and counted; a lost audit row is accepted over added latency.
func (w *auditWriter) enqueue(entry *models.AuditLog) {
	select {
	case w.queue <- entry:
	default:
		telemetry.AuditDropsTotal.Inc()
		slog.Warn("audit queue full, dropping entry", "action", entry.Action)
	}
}

// AuditMiddleware records requests to the audit log. By default only
// successful write operations are logged; reads and failed requests are
// opt-in via configuration.
//
// Writes go through a bounded queue drained by a background goroutine so audit
// logging never adds latency to the request path.
func AuditMiddleware(auditRepo *repositories.AuditRepository, auditCfg *config.AuditConfig) gin.HandlerFunc {
	writer := newAuditWriter(auditRepo)

	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "OPTIONS" {
			return
		}

		logReads := auditCfg != nil && auditCfg.LogReadOperations
		logFailed := auditCfg != nil && auditCfg.LogFailedRequests

		isRead := c.Request.Method == "GET"
		isFailed := c.Writer.Status() >= 400

		if isRead && !logReads {
			return
		}
		if isFailed && !logFailed {
			return
		}

		resourceType := resourceTypeFor(c.Request.URL.Path)
		entry := &models.AuditLog{
			Action:       fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path),
			ResourceType: &resourceType,
		}
		if ip := c.ClientIP(); ip != "" {
			entry.IPAddress = &ip
		}

		if userID, ok := c.Get(UserIDKey); ok {
			if id, ok := userID.(string); ok && id != "" {
				entry.UserID = &id
			}
		}

		if tenant, ok := TenantFrom(c); ok && tenant.ChurchID != "" {
			churchID := tenant.ChurchID
			entry.ChurchID = &churchID
		}

		entry.Metadata = map[string]interface{}{
			"status_code": c.Writer.Status(),
		}
		if reqID, ok := c.Get(RequestIDKey); ok {
			entry.Metadata["request_id"] = reqID
		}

		writer.enqueue(entry)
	}
}

func resourceTypeFor(path string) string {
	for _, rt := range auditResourceTypes {
		if strings.Contains(path, rt.fragment) {
			return rt.resource
		}
	}
	return "other"
}

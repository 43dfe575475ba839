// events.go implements handlers for event CRUD operations.
package admin

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/cache"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
)

// EventHandlers handles event management endpoints
type EventHandlers struct {
	eventRepo *repositories.EventRepository
	listCache *cache.ListCache[*models.Event]
}

// NewEventHandlers creates a new EventHandlers instance
func NewEventHandlers(db *sql.DB) (*EventHandlers, error) {
	listCache, err := cache.NewListCache[*models.Event]("events", 0)
	if err != nil {
		return nil, err
	}
	return &EventHandlers{
		eventRepo: repositories.NewEventRepository(db),
		listCache: listCache,
	}, nil
}

type eventRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartsAt    string  `json:"starts_at" binding:"required"` // RFC 3339
	EndsAt      *string `json:"ends_at"`                      // RFC 3339
}

// @Summary      List events
// @Description  Get all events of the scoped church, most recent first. A degraded read returns an empty list rather than an error.
// @Tags         Events
// @Security     Bearer
// @Produce      json
// @Param        church_id  query  string  false  "Church to list (master only)"
// @Success      200  {object}  map[string]interface{}  "events: []models.Event"
// @Router       /api/v1/events [get]
// ListEventsHandler lists the scoped church's events
// GET /api/v1/events
func (h *EventHandlers) ListEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if cached, hit := h.listCache.Get(churchID); hit {
			c.JSON(http.StatusOK, gin.H{"events": cached})
			return
		}

		events, err := h.eventRepo.ListEvents(c.Request.Context(), churchID)
		if err != nil {
			slog.Error("event list failed, serving empty", "church_id", churchID, "error", err)
			c.JSON(http.StatusOK, gin.H{"events": []*models.Event{}})
			return
		}

		h.listCache.Put(churchID, events)
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

// @Summary      Get event
// @Description  Retrieve a single event of the scoped church
// @Tags         Events
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Event ID"
// @Success      200  {object}  map[string]interface{}  "event: models.Event"
// @Failure      404  {object}  map[string]interface{}  "Event not found in the scoped church"
// @Router       /api/v1/events/{id} [get]
// GetEventHandler retrieves a single event
// GET /api/v1/events/:id
func (h *EventHandlers) GetEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		event, err := h.eventRepo.GetEventByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o evento"})
			return
		}
		if event == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Evento não encontrado"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"event": event})
	}
}

// @Summary      Create event
// @Description  Create an event in the scoped church. When present, ends_at must not precede starts_at.
// @Tags         Events
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  eventRequest  true  "Event payload"
// @Success      201  {object}  map[string]interface{}  "event: models.Event"
// @Failure      400  {object}  map[string]interface{}  "Invalid payload or inverted time range"
// @Router       /api/v1/events [post]
// CreateEventHandler creates an event in the scoped church
// POST /api/v1/events
func (h *EventHandlers) CreateEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		var req eventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do evento inválidos"})
			return
		}

		event := &models.Event{
			ChurchID:    churchID,
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
		}

		var err error
		if event.StartsAt, event.EndsAt, err = parseEventTimes(req.StartsAt, req.EndsAt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datas do evento inválidas"})
			return
		}

		if err := h.eventRepo.CreateEvent(c.Request.Context(), event); err != nil {
			slog.Error("event create failed", "church_id", churchID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar o evento"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusCreated, gin.H{"event": event})
	}
}

// @Summary      Update event
// @Description  Update an existing event of the scoped church
// @Tags         Events
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string        true  "Event ID"
// @Param        request  body  eventRequest  true  "Event payload"
// @Success      200  {object}  map[string]interface{}  "event: models.Event"
// @Failure      404  {object}  map[string]interface{}  "Event not found in the scoped church"
// @Router       /api/v1/events/{id} [put]
// UpdateEventHandler updates an event
// PUT /api/v1/events/:id
func (h *EventHandlers) UpdateEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		event, err := h.eventRepo.GetEventByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o evento"})
			return
		}
		if event == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Evento não encontrado"})
			return
		}

		var req eventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do evento inválidos"})
			return
		}

		// Only the fields named in the request change; omitted ones keep
		// their stored values.
		event.Title = req.Title
		if req.Description != nil {
			event.Description = req.Description
		}
		if req.Location != nil {
			event.Location = req.Location
		}
		startsAt, endsAt, err := parseEventTimes(req.StartsAt, req.EndsAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datas do evento inválidas"})
			return
		}
		event.StartsAt = startsAt
		if req.EndsAt != nil {
			event.EndsAt = endsAt
		}

		if err := h.eventRepo.UpdateEvent(c.Request.Context(), event); err != nil {
			slog.Error("event update failed", "event_id", event.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar o evento"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"event": event})
	}
}

// @Summary      Delete event
// @Description  Delete an event from the scoped church
// @Tags         Events
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Event ID"
// @Success      200  {object}  map[string]interface{}  "Deletion confirmation"
// @Router       /api/v1/events/{id} [delete]
// DeleteEventHandler deletes an event
// DELETE /api/v1/events/:id
func (h *EventHandlers) DeleteEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if err := h.eventRepo.DeleteEvent(c.Request.Context(), churchID, c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover o evento"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"message": "Evento removido"})
	}
}

// parseEventTimes parses the RFC 3339 start and optional end timestamps and
// rejects a range that ends before it starts.
func parseEventTimes(startsAt string, endsAt *string) (time.Time, *time.Time, error) {
	start, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return time.Time{}, nil, err
	}

	if endsAt == nil || *endsAt == "" {
		return start, nil, nil
	}

	end, err := time.Parse(time.RFC3339, *endsAt)
	if err != nil {
		return time.Time{}, nil, err
	}
	if end.Before(start) {
		return time.Time{}, nil, fmt.Errorf("event ends before it starts")
	}
	return start, &end, nil
}

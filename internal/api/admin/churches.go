// churches.go implements master-only handlers for church CRUD and user-to-church assignment.
package admin

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
)

// ChurchHandlers handles church management endpoints. Every route is guarded
// by the master role at the router, so the handlers themselves only deal with
// data access.
type ChurchHandlers struct {
	churchRepo  *repositories.ChurchRepository
	statsRepo   *repositories.StatsRepository
	profileRepo *repositories.ProfileRepository
	roleRepo    *repositories.RoleRepository
}

// NewChurchHandlers creates a new ChurchHandlers instance
func NewChurchHandlers(db *sql.DB) *ChurchHandlers {
	return &ChurchHandlers{
		churchRepo:  repositories.NewChurchRepository(db),
		statsRepo:   repositories.NewStatsRepository(db),
		profileRepo: repositories.NewProfileRepository(db),
		roleRepo:    repositories.NewRoleRepository(db),
	}
}

type churchRequest struct {
	Name    string  `json:"name" binding:"required"`
	CNPJ    *string `json:"cnpj"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// @Summary      List churches
// @Description  Get every church with its aggregate member, group, event, and finance statistics
// @Tags         Churches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "churches: []models.ChurchWithStats"
// @Failure      403  {object}  map[string]interface{}  "Caller is not a master"
// @Router       /api/v1/churches [get]
// ListChurchesHandler lists all churches with aggregate statistics
// GET /api/v1/churches
func (h *ChurchHandlers) ListChurchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churches, err := h.statsRepo.ListChurchStats(c.Request.Context())
		if err != nil {
			slog.Error("church list failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar as igrejas"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"churches": churches})
	}
}

// @Summary      Get church
// @Description  Retrieve one church with its aggregate statistics
// @Tags         Churches
// @Security     Bearer
// @Produce      json
// @Param        church_id  path  string  true  "Church ID"
// @Success      200  {object}  map[string]interface{}  "church: models.Church, stats: models.ChurchWithStats"
// @Failure      404  {object}  map[string]interface{}  "Church not found"
// @Router       /api/v1/churches/{church_id} [get]
// GetChurchHandler retrieves a church with its statistics
// GET /api/v1/churches/:church_id
func (h *ChurchHandlers) GetChurchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID := c.Param("church_id")

		church, err := h.churchRepo.GetChurchByID(c.Request.Context(), churchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar a igreja"})
			return
		}
		if church == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Igreja não encontrada"})
			return
		}

		stats, err := h.statsRepo.GetChurchStats(c.Request.Context(), churchID)
		if err != nil {
			slog.Error("church stats read failed", "church_id", churchID, "error", err)
		}
		// A freshly created church has no view rows yet; report zeroes.
		if stats == nil {
			stats = &models.ChurchWithStats{ID: church.ID, Name: church.Name, CNPJ: church.CNPJ}
		}

		c.JSON(http.StatusOK, gin.H{"church": church, "stats": stats})
	}
}

// @Summary      Create church
// @Description  Create a new church (tenant)
// @Tags         Churches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  churchRequest  true  "Church payload"
// @Success      201  {object}  map[string]interface{}  "church: models.Church"
// @Failure      400  {object}  map[string]interface{}  "Invalid payload"
// @Router       /api/v1/churches [post]
// CreateChurchHandler creates a church
// POST /api/v1/churches
func (h *ChurchHandlers) CreateChurchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req churchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados da igreja inválidos"})
			return
		}

		church := &models.Church{
			Name:    req.Name,
			CNPJ:    req.CNPJ,
			Address: req.Address,
			Phone:   req.Phone,
			Email:   req.Email,
		}

		if err := h.churchRepo.CreateChurch(c.Request.Context(), church); err != nil {
			slog.Error("church create failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar a igreja"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"church": church})
	}
}

// @Summary      Update church
// @Description  Update an existing church
// @Tags         Churches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        church_id  path  string  true  "Church ID"
// @Param        request  body  churchRequest  true  "Church payload"
// @Success      200  {object}  map[string]interface{}  "church: models.Church"
// @Failure      404  {object}  map[string]interface{}  "Church not found"
// @Router       /api/v1/churches/{church_id} [put]
// UpdateChurchHandler updates a church
// PUT /api/v1/churches/:church_id
func (h *ChurchHandlers) UpdateChurchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		church, err := h.churchRepo.GetChurchByID(c.Request.Context(), c.Param("church_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar a igreja"})
			return
		}
		if church == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Igreja não encontrada"})
			return
		}

		var req churchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados da igreja inválidos"})
			return
		}

		// Only the fields named in the request change; omitted ones keep
		// their stored values.
		church.Name = req.Name
		if req.CNPJ != nil {
			church.CNPJ = req.CNPJ
		}
		if req.Address != nil {
			church.Address = req.Address
		}
		if req.Phone != nil {
			church.Phone = req.Phone
		}
		if req.Email != nil {
			church.Email = req.Email
		}

		if err := h.churchRepo.UpdateChurch(c.Request.Context(), church); err != nil {
			slog.Error("church update failed", "church_id", church.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar a igreja"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"church": church})
	}
}

// @Summary      Delete church
// @Description  Delete a church. All of its members, groups, events, and finance records are removed by the database cascade; assigned profiles revert to unassigned.
// @Tags         Churches
// @Security     Bearer
// @Produce      json
// @Param        church_id  path  string  true  "Church ID"
// @Success      200  {object}  map[string]interface{}  "Deletion confirmation"
// @Router       /api/v1/churches/{church_id} [delete]
// DeleteChurchHandler deletes a church
// DELETE /api/v1/churches/:church_id
func (h *ChurchHandlers) DeleteChurchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.churchRepo.DeleteChurch(c.Request.Context(), c.Param("church_id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover a igreja"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Igreja removida"})
	}
}

type assignRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// @Summary      Assign user to church
// @Description  Link a profile to this church and grant a role scoped to it. Takes an unassigned account out of the holding state. The master role cannot be granted this way.
// @Tags         Churches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        church_id  path  string  true  "Church ID"
// @Param        request  body  assignRequest  true  "User and role to assign"
// @Success      200  {object}  map[string]interface{}  "assignment: models.RoleAssignment"
// @Failure      400  {object}  map[string]interface{}  "Unknown or disallowed role"
// @Failure      404  {object}  map[string]interface{}  "Church or user not found"
// @Router       /api/v1/churches/{church_id}/assign [post]
// AssignUserHandler links a profile to a church with a role
// POST /api/v1/churches/:church_id/assign
func (h *ChurchHandlers) AssignUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID := c.Param("church_id")

		var req assignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados de atribuição inválidos"})
			return
		}
		if err := auth.ValidateRole(req.Role); err != nil || req.Role == string(auth.RoleMaster) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Papel inválido"})
			return
		}

		church, err := h.churchRepo.GetChurchByID(c.Request.Context(), churchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar a igreja"})
			return
		}
		if church == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Igreja não encontrada"})
			return
		}

		profile, err := h.profileRepo.GetProfileByID(c.Request.Context(), req.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o usuário"})
			return
		}
		if profile == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
			return
		}

		if err := h.profileRepo.AssignChurch(c.Request.Context(), profile.ID, &church.ID); err != nil {
			slog.Error("church assignment failed", "user_id", profile.ID, "church_id", church.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao vincular o usuário"})
			return
		}

		assignment := &models.RoleAssignment{
			UserID:   profile.ID,
			Role:     req.Role,
			ChurchID: &church.ID,
		}
		if err := h.roleRepo.CreateAssignment(c.Request.Context(), assignment); err != nil {
			slog.Error("role assignment failed", "user_id", profile.ID, "church_id", church.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao conceder o papel"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"assignment": assignment})
	}
}

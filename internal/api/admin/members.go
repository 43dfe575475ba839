// members.go implements handlers for member CRUD operations.
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

// MemberHandlers handles member management endpoints
type MemberHandlers struct {
	memberRepo *repositories.MemberRepository
	listCache  *cache.ListCache[*models.Member]
}

// NewMemberHandlers creates a new MemberHandlers instance
func NewMemberHandlers(db *sql.DB) (*MemberHandlers, error) {
	listCache, err := cache.NewListCache[*models.Member]("members", 0)
	if err != nil {
		return nil, err
	}
	return &MemberHandlers{
		memberRepo: repositories.NewMemberRepository(db),
		listCache:  listCache,
	}, nil
}

type memberRequest struct {
	Name      string  `json:"name" binding:"required"`
	CPF       *string `json:"cpf"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Address   *string `json:"address"`
	Status    string  `json:"status"`
	JoinedAt  *string `json:"joined_at"` // YYYY-MM-DD
}

// @Summary      List members
// @Description  Get all members of the scoped church, newest first. A degraded read (database failure) returns an empty list rather than an error so the dashboard keeps rendering.
// @Tags         Members
// @Security     Bearer
// @Produce      json
// @Param        church_id  query  string  false  "Church to list (master only; others are pinned to their own church)"
// @Success      200  {object}  map[string]interface{}  "members: []models.Member"
// @Failure      400  {object}  map[string]interface{}  "Master session without a church selection"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/v1/members [get]
// ListMembersHandler lists the scoped church's members
// GET /api/v1/members
func (h *MemberHandlers) ListMembersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if cached, hit := h.listCache.Get(churchID); hit {
			c.JSON(http.StatusOK, gin.H{"members": cached})
			return
		}

		members, err := h.memberRepo.ListMembers(c.Request.Context(), churchID)
		if err != nil {
			slog.Error("member list failed, serving empty", "church_id", churchID, "error", err)
			c.JSON(http.StatusOK, gin.H{"members": []*models.Member{}})
			return
		}

		h.listCache.Put(churchID, members)
		c.JSON(http.StatusOK, gin.H{"members": members})
	}
}

// @Summary      Get member
// @Description  Retrieve a single member of the scoped church
// @Tags         Members
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  map[string]interface{}  "member: models.Member"
// @Failure      404  {object}  map[string]interface{}  "Member not found in the scoped church"
// @Router       /api/v1/members/{id} [get]
// GetMemberHandler retrieves a single member
// GET /api/v1/members/:id
func (h *MemberHandlers) GetMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		member, err := h.memberRepo.GetMemberByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o membro"})
			return
		}
		if member == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membro não encontrado"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"member": member})
	}
}

// @Summary      Create member
// @Description  Create a member in the scoped church. Status defaults to "ativo" when omitted.
// @Tags         Members
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  memberRequest  true  "Member payload"
// @Success      201  {object}  map[string]interface{}  "member: models.Member"
// @Failure      400  {object}  map[string]interface{}  "Invalid payload"
// @Router       /api/v1/members [post]
// CreateMemberHandler creates a member in the scoped church
// POST /api/v1/members
func (h *MemberHandlers) CreateMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		var req memberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do membro inválidos"})
			return
		}
		if req.Status != "" && !models.ValidMemberStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Situação de membro inválida"})
			return
		}

		member := &models.Member{
			ChurchID: churchID,
			Name:     req.Name,
			CPF:      req.CPF,
			Email:    req.Email,
			Phone:    req.Phone,
			Address:  req.Address,
			Status:   req.Status,
		}

		var err error
		if member.BirthDate, err = parseDate(req.BirthDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data de nascimento inválida"})
			return
		}
		if member.JoinedAt, err = parseDate(req.JoinedAt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data de entrada inválida"})
			return
		}

		if err := h.memberRepo.CreateMember(c.Request.Context(), member); err != nil {
			slog.Error("member create failed", "church_id", churchID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar o membro"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusCreated, gin.H{"member": member})
	}
}

// @Summary      Update member
// @Description  Update an existing member of the scoped church
// @Tags         Members
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string         true  "Member ID"
// @Param        request  body  memberRequest  true  "Member payload"
// @Success      200  {object}  map[string]interface{}  "member: models.Member"
// @Failure      404  {object}  map[string]interface{}  "Member not found in the scoped church"
// @Router       /api/v1/members/{id} [put]
// UpdateMemberHandler updates a member
// PUT /api/v1/members/:id
func (h *MemberHandlers) UpdateMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		member, err := h.memberRepo.GetMemberByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o membro"})
			return
		}
		if member == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membro não encontrado"})
			return
		}

		var req memberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do membro inválidos"})
			return
		}
		if req.Status != "" && !models.ValidMemberStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Situação de membro inválida"})
			return
		}

		// Only the fields named in the request change; omitted ones keep
		// their stored values.
		member.Name = req.Name
		if req.CPF != nil {
			member.CPF = req.CPF
		}
		if req.Email != nil {
			member.Email = req.Email
		}
		if req.Phone != nil {
			member.Phone = req.Phone
		}
		if req.Address != nil {
			member.Address = req.Address
		}
		if req.Status != "" {
			member.Status = req.Status
		}
		if req.BirthDate != nil {
			if member.BirthDate, err = parseDate(req.BirthDate); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Data de nascimento inválida"})
				return
			}
		}
		if req.JoinedAt != nil {
			if member.JoinedAt, err = parseDate(req.JoinedAt); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Data de entrada inválida"})
				return
			}
		}

		if err := h.memberRepo.UpdateMember(c.Request.Context(), member); err != nil {
			slog.Error("member update failed", "member_id", member.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar o membro"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"member": member})
	}
}

// @Summary      Delete member
// @Description  Delete a member from the scoped church
// @Tags         Members
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  map[string]interface{}  "Deletion confirmation"
// @Router       /api/v1/members/{id} [delete]
// DeleteMemberHandler deletes a member
// DELETE /api/v1/members/:id
func (h *MemberHandlers) DeleteMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if err := h.memberRepo.DeleteMember(c.Request.Context(), churchID, c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover o membro"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"message": "Membro removido"})
	}
}

// parseDate parses an optional YYYY-MM-DD value. A nil or empty input yields nil.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

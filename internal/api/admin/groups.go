// groups.go implements handlers for group CRUD operations and group membership management.
package admin

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/cache"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
)

// GroupHandlers handles group management endpoints
type GroupHandlers struct {
	groupRepo  *repositories.GroupRepository
	memberRepo *repositories.MemberRepository
	listCache  *cache.ListCache[*models.GroupWithMemberCount]
}

// NewGroupHandlers creates a new GroupHandlers instance
func NewGroupHandlers(db *sql.DB) (*GroupHandlers, error) {
	listCache, err := cache.NewListCache[*models.GroupWithMemberCount]("groups", 0)
	if err != nil {
		return nil, err
	}
	return &GroupHandlers{
		groupRepo:  repositories.NewGroupRepository(db),
		memberRepo: repositories.NewMemberRepository(db),
		listCache:  listCache,
	}, nil
}

type groupRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	LeaderID    *string `json:"leader_id"`
	MeetingDay  *string `json:"meeting_day"`
	MeetingTime *string `json:"meeting_time"`
}

// @Summary      List groups
// @Description  Get all groups of the scoped church with member counts, newest first. A degraded read returns an empty list rather than an error.
// @Tags         Groups
// @Security     Bearer
// @Produce      json
// @Param        church_id  query  string  false  "Church to list (master only)"
// @Success      200  {object}  map[string]interface{}  "groups: []models.GroupWithMemberCount"
// @Router       /api/v1/groups [get]
// ListGroupsHandler lists the scoped church's groups with member counts
// GET /api/v1/groups
func (h *GroupHandlers) ListGroupsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if cached, hit := h.listCache.Get(churchID); hit {
			c.JSON(http.StatusOK, gin.H{"groups": cached})
			return
		}

		groups, err := h.groupRepo.ListGroups(c.Request.Context(), churchID)
		if err != nil {
			slog.Error("group list failed, serving empty", "church_id", churchID, "error", err)
			c.JSON(http.StatusOK, gin.H{"groups": []*models.GroupWithMemberCount{}})
			return
		}

		h.listCache.Put(churchID, groups)
		c.JSON(http.StatusOK, gin.H{"groups": groups})
	}
}

// @Summary      Get group
// @Description  Retrieve a single group of the scoped church
// @Tags         Groups
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Group ID"
// @Success      200  {object}  map[string]interface{}  "group: models.Group"
// @Failure      404  {object}  map[string]interface{}  "Group not found in the scoped church"
// @Router       /api/v1/groups/{id} [get]
// GetGroupHandler retrieves a single group
// GET /api/v1/groups/:id
func (h *GroupHandlers) GetGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		group, err := h.groupRepo.GetGroupByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o grupo"})
			return
		}
		if group == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Grupo não encontrado"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"group": group})
	}
}

// @Summary      Create group
// @Description  Create a group in the scoped church
// @Tags         Groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  groupRequest  true  "Group payload"
// @Success      201  {object}  map[string]interface{}  "group: models.Group"
// @Failure      400  {object}  map[string]interface{}  "Invalid payload"
// @Router       /api/v1/groups [post]
// CreateGroupHandler creates a group in the scoped church
// POST /api/v1/groups
func (h *GroupHandlers) CreateGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		var req groupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do grupo inválidos"})
			return
		}

		group := &models.Group{
			ChurchID:    churchID,
			Name:        req.Name,
			Description: req.Description,
			LeaderID:    req.LeaderID,
			MeetingDay:  req.MeetingDay,
			MeetingTime: req.MeetingTime,
		}

		if err := h.groupRepo.CreateGroup(c.Request.Context(), group); err != nil {
			slog.Error("group create failed", "church_id", churchID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar o grupo"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusCreated, gin.H{"group": group})
	}
}

// @Summary      Update group
// @Description  Update an existing group of the scoped church
// @Tags         Groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string        true  "Group ID"
// @Param        request  body  groupRequest  true  "Group payload"
// @Success      200  {object}  map[string]interface{}  "group: models.Group"
// @Failure      404  {object}  map[string]interface{}  "Group not found in the scoped church"
// @Router       /api/v1/groups/{id} [put]
// UpdateGroupHandler updates a group
// PUT /api/v1/groups/:id
func (h *GroupHandlers) UpdateGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		group, err := h.groupRepo.GetGroupByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o grupo"})
			return
		}
		if group == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Grupo não encontrado"})
			return
		}

		var req groupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do grupo inválidos"})
			return
		}

		// Only the fields named in the request change; omitted ones keep
		// their stored values.
		group.Name = req.Name
		if req.Description != nil {
			group.Description = req.Description
		}
		if req.LeaderID != nil {
			group.LeaderID = req.LeaderID
		}
		if req.MeetingDay != nil {
			group.MeetingDay = req.MeetingDay
		}
		if req.MeetingTime != nil {
			group.MeetingTime = req.MeetingTime
		}

		if err := h.groupRepo.UpdateGroup(c.Request.Context(), group); err != nil {
			slog.Error("group update failed", "group_id", group.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar o grupo"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"group": group})
	}
}

// @Summary      Delete group
// @Description  Delete a group from the scoped church. Membership rows are removed by the database cascade.
// @Tags         Groups
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Group ID"
// @Success      200  {object}  map[string]interface{}  "Deletion confirmation"
// @Router       /api/v1/groups/{id} [delete]
// DeleteGroupHandler deletes a group
// DELETE /api/v1/groups/:id
func (h *GroupHandlers) DeleteGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		if err := h.groupRepo.DeleteGroup(c.Request.Context(), churchID, c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover o grupo"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"message": "Grupo removido"})
	}
}

type groupMemberRequest struct {
	MemberID string `json:"member_id" binding:"required"`
}

// @Summary      Add group member
// @Description  Add a member of the scoped church to a group. Adding an existing member is a no-op.
// @Tags         Groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string              true  "Group ID"
// @Param        request  body  groupMemberRequest  true  "Member to add"
// @Success      200  {object}  map[string]interface{}  "Membership confirmation"
// @Failure      404  {object}  map[string]interface{}  "Group or member not found in the scoped church"
// @Router       /api/v1/groups/{id}/members [post]
// AddGroupMemberHandler adds a member to a group
// POST /api/v1/groups/:id/members
func (h *GroupHandlers) AddGroupMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		var req groupMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados de participação inválidos"})
			return
		}

		// Both the group and the member must belong to the scoped church; the
		// tenant check happens here because the join table itself carries no
		// church column.
		group, err := h.groupRepo.GetGroupByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o grupo"})
			return
		}
		if group == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Grupo não encontrado"})
			return
		}

		member, err := h.memberRepo.GetMemberByID(c.Request.Context(), churchID, req.MemberID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o membro"})
			return
		}
		if member == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membro não encontrado"})
			return
		}

		if err := h.groupRepo.AddGroupMember(c.Request.Context(), group.ID, member.ID); err != nil {
			slog.Error("group member add failed", "group_id", group.ID, "member_id", member.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao adicionar o membro ao grupo"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"message": "Membro adicionado ao grupo"})
	}
}

// @Summary      Remove group member
// @Description  Remove a member from a group of the scoped church
// @Tags         Groups
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "Group ID"
// @Param        member_id  path  string  true  "Member ID"
// @Success      200  {object}  map[string]interface{}  "Removal confirmation"
// @Failure      404  {object}  map[string]interface{}  "Group not found in the scoped church"
// @Router       /api/v1/groups/{id}/members/{member_id} [delete]
// RemoveGroupMemberHandler removes a member from a group
// DELETE /api/v1/groups/:id/members/:member_id
func (h *GroupHandlers) RemoveGroupMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		churchID, ok := resolveScope(c)
		if !ok {
			return
		}

		group, err := h.groupRepo.GetGroupByID(c.Request.Context(), churchID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o grupo"})
			return
		}
		if group == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Grupo não encontrado"})
			return
		}

		if err := h.groupRepo.RemoveGroupMember(c.Request.Context(), group.ID, c.Param("member_id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover o membro do grupo"})
			return
		}

		h.listCache.Invalidate(churchID)
		c.JSON(http.StatusOK, gin.H{"message": "Membro removido do grupo"})
	}
}

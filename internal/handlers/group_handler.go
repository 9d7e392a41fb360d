package handlers

import (
	"net/http"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	*BaseHandler
	groupService services.GroupService
}

func NewGroupHandler(base *BaseHandler, groupService services.GroupService) *GroupHandler {
	return &GroupHandler{
		BaseHandler:  base,
		groupService: groupService,
	}
}

func (h *GroupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/groups")
	groups.Use(middleware.AuthMiddleware())
	{
		groups.GET("", h.List)
		groups.POST("", h.Create)
		groups.PUT("/:id", h.Update)
		groups.DELETE("/:id", h.Delete)

		groups.GET("/:id/members", h.Members)
		groups.POST("/:id/members", h.AddMember)
		groups.DELETE("/:id/members/:subscriberId", h.RemoveMember)
	}
}

// List - группы организации с числом участников
func (h *GroupHandler) List(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	groups, err := h.groupService.List(c.Request.Context(), orgID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) Create(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) Update(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), orgID, userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// Members - абоненты группы
func (h *GroupHandler) Members(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	members, err := h.groupService.Members(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.AddGroupMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.groupService.AddMember(c.Request.Context(), orgID, userID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscriber added to group"})
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), orgID, userID, c.Param("id"), c.Param("subscriberId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscriber removed from group"})
}

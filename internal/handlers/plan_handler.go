package handlers

import (
	"net/http"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	*BaseHandler
	planService services.PlanService
}

func NewPlanHandler(base *BaseHandler, planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		BaseHandler: base,
		planService: planService,
	}
}

func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	plans.Use(middleware.AuthMiddleware())
	{
		plans.GET("", h.List)
		plans.GET("/:id", h.Get)
	}

	// Изменение планов - только для админов
	admin := rg.Group("/plans")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

func (h *PlanHandler) List(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.PlanListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.planService.List(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) Get(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Create(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.CreatePlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) Update(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), orgID, userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}

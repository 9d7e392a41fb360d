package handlers

import (
	"net/http"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	*BaseHandler
	activityService services.ActivityService
}

func NewActivityHandler(base *BaseHandler, activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler:     base,
		activityService: activityService,
	}
}

func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	activity := rg.Group("/activity")
	activity.Use(middleware.AuthMiddleware())
	{
		activity.GET("", h.List)
	}

	errors := rg.Group("/errors")
	errors.Use(middleware.AuthMiddleware())
	{
		errors.GET("", h.ListErrors)
		errors.POST("", h.LogError)
	}
}

func (h *ActivityHandler) List(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.ActivityListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.activityService.List(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ActivityHandler) ListErrors(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.PaginationQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.activityService.ListErrors(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LogError - регистрация клиентской ошибки фронтендом
func (h *ActivityHandler) LogError(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.LogErrorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.activityService.LogError(c.Request.Context(), orgID, userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Error logged"})
}

package handlers

import (
	"net/http"

	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	*BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(base *BaseHandler, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      base,
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware())
	{
		dashboard.GET("/stats", h.Stats)
		dashboard.GET("/analytics", h.Analytics)
	}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), orgID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Analytics(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	months := ParseQueryInt(c, "months", 12)

	analytics, err := h.dashboardService.Analytics(c.Request.Context(), orgID, months)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

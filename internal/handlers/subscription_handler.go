package handlers

import (
	"net/http"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
	billingService      services.BillingService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService, billingService services.BillingService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
		billingService:      billingService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	subscriptions := rg.Group("/subscriptions")
	subscriptions.Use(middleware.AuthMiddleware())
	{
		subscriptions.GET("", h.List)
		subscriptions.POST("", h.Create)
		subscriptions.GET("/unpaid", h.ListUnpaid)
		subscriptions.GET("/:id", h.Get)
		subscriptions.PUT("/:id", h.Update)
		subscriptions.DELETE("/:id", h.Delete)
		subscriptions.POST("/:id/mark-paid", h.MarkPaid)

		admin := subscriptions.Group("")
		admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
		{
			admin.POST("/expire-due", h.ExpireDue)
		}
	}
}

// List - список подписок через конвейер согласования.
// Поддерживает status, search, subscriber_id, payment_status,
// expiring_soon и пагинацию.
func (h *SubscriptionHandler) List(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.SubscriptionListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.subscriptionService.List(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Get(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Update(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Update(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) Delete(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Delete(c.Request.Context(), orgID, userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}

func (h *SubscriptionHandler) ListUnpaid(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.PaginationQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.billingService.ListUnpaid(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SubscriptionHandler) MarkPaid(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.MarkPaidRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payment, err := h.billingService.MarkPaid(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ExpireDue - ручной запуск обхода просроченных подписок организации
func (h *SubscriptionHandler) ExpireDue(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	affected, err := h.subscriptionService.ExpireDue(c.Request.Context(), orgID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": affected})
}

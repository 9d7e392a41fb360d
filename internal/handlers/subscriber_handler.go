package handlers

import (
	"net/http"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SubscriberHandler struct {
	*BaseHandler
	subscriberService   services.SubscriberService
	subscriptionService services.SubscriptionService
}

func NewSubscriberHandler(base *BaseHandler, subscriberService services.SubscriberService, subscriptionService services.SubscriptionService) *SubscriberHandler {
	return &SubscriberHandler{
		BaseHandler:         base,
		subscriberService:   subscriberService,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	subscribers := rg.Group("/subscribers")
	subscribers.Use(middleware.AuthMiddleware())
	{
		subscribers.GET("", h.List)
		subscribers.POST("", h.Create)
		subscribers.GET("/:id", h.Get)
		subscribers.PUT("/:id", h.Update)
		subscribers.DELETE("/:id", h.Delete)
		subscribers.GET("/:id/subscriptions", h.History)
	}
}

func (h *SubscriberHandler) List(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.SubscriberListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.subscriberService.List(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SubscriberHandler) Get(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	subscriber, err := h.subscriberService.Get(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriber)
}

func (h *SubscriberHandler) Create(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.CreateSubscriberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	subscriber, err := h.subscriberService.Create(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscriber)
}

func (h *SubscriberHandler) Update(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.UpdateSubscriberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	subscriber, err := h.subscriberService.Update(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriber)
}

func (h *SubscriberHandler) Delete(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	if err := h.subscriberService.Delete(c.Request.Context(), orgID, userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscriber deleted"})
}

// History - полная история подписок абонента, без схлопывания
func (h *SubscriberHandler) History(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	history, err := h.subscriptionService.History(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history})
}

package handlers

import (
	"net/http"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	*BaseHandler
	billingService services.BillingService
}

func NewBillingHandler(base *BaseHandler, billingService services.BillingService) *BillingHandler {
	return &BillingHandler{
		BaseHandler:    base,
		billingService: billingService,
	}
}

func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.GET("", h.ListPayments)
		payments.POST("", h.CreatePayment)
	}

	invoices := rg.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	{
		invoices.GET("", h.ListInvoices)
		invoices.POST("", h.CreateInvoice)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id/status", h.UpdateInvoiceStatus)
	}
}

func (h *BillingHandler) ListPayments(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.PaymentListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.billingService.ListPayments(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BillingHandler) CreatePayment(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payment, err := h.billingService.CreatePayment(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var q dto.InvoiceListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.billingService.ListInvoices(c.Request.Context(), orgID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	invoice, err := h.billingService.CreateInvoice(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

func (h *BillingHandler) GetInvoice(c *gin.Context) {
	orgID, _, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	invoice, err := h.billingService.GetInvoice(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (h *BillingHandler) UpdateInvoiceStatus(c *gin.Context) {
	orgID, userID, ok := h.GetAuthScope(c)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	invoice, err := h.billingService.UpdateInvoiceStatus(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

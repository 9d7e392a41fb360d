package services

import (
	"context"
	"time"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/reconciler"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"
)

type BillingService interface {
	// ListUnpaid - все неоплаченные строки организации. Схлопывание
	// не выполняется: оператору нужен каждый долг, а не лучшая строка.
	ListUnpaid(ctx context.Context, organizationID string, q *dto.PaginationQuery) (*dto.PaginatedResponse, error)
	MarkPaid(ctx context.Context, organizationID string, userID *string, subscriptionID string, req *dto.MarkPaidRequest) (*models.Payment, error)

	CreatePayment(ctx context.Context, organizationID string, userID *string, req *dto.CreatePaymentRequest) (*models.Payment, error)
	ListPayments(ctx context.Context, organizationID string, q *dto.PaymentListQuery) (*dto.PaginatedResponse, error)

	CreateInvoice(ctx context.Context, organizationID string, userID *string, req *dto.CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoice(ctx context.Context, organizationID, id string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, organizationID string, q *dto.InvoiceListQuery) (*dto.PaginatedResponse, error)
	UpdateInvoiceStatus(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateInvoiceStatusRequest) (*models.Invoice, error)
}

type BillingServiceImpl struct {
	source      reconciler.RowSource
	subRepo     repositories.SubscriptionRepository
	billingRepo repositories.BillingRepository
	activity    ActivityService
}

func NewBillingService(
	source reconciler.RowSource,
	subRepo repositories.SubscriptionRepository,
	billingRepo repositories.BillingRepository,
	activity ActivityService,
) BillingService {
	return &BillingServiceImpl{
		source:      source,
		subRepo:     subRepo,
		billingRepo: billingRepo,
		activity:    activity,
	}
}

func (s *BillingServiceImpl) ListUnpaid(ctx context.Context, organizationID string, q *dto.PaginationQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	f := reconciler.Filters{PaymentStatus: models.PaymentStatusUnpaid}
	rows, err := s.source.ListRows(ctx, organizationID, f)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	result := reconciler.Reconcile(rows, f, time.Now(), q.Page, q.Limit)

	responses := make([]dto.SubscriptionResponse, 0, len(result.Rows))
	for _, row := range result.Rows {
		responses = append(responses, toSubscriptionResponse(&row))
	}

	return dto.NewPaginatedResponse(responses, result.Total, result.Page, result.Limit), nil
}

// MarkPaid регистрирует платеж и переводит payment_status подписки в paid.
func (s *BillingServiceImpl) MarkPaid(ctx context.Context, organizationID string, userID *string, subscriptionID string, req *dto.MarkPaidRequest) (*models.Payment, error) {
	sub, err := s.subRepo.FindByID(ctx, organizationID, subscriptionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	if sub.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperrors.ErrAlreadyPaid
	}

	amount := req.Amount
	if amount == 0 {
		amount = sub.Price
	}
	method := models.PaymentMethodCash
	if req.Method != "" {
		method = models.PaymentMethod(req.Method)
	}
	paidAt := time.Now()
	if req.PaidAt != "" {
		t, err := time.Parse(dateLayout, req.PaidAt)
		if err != nil {
			return nil, apperrors.NewBadRequestError("paid_at must be a YYYY-MM-DD date")
		}
		paidAt = t
	}

	payment := &models.Payment{
		OrganizationID: organizationID,
		SubscriptionID: &sub.ID,
		Amount:         amount,
		Method:         method,
		Reference:      req.Reference,
		Notes:          req.Notes,
		PaidAt:         paidAt,
	}

	// Платеж и смена payment_status - одна транзакция
	if err := s.billingRepo.CreatePaymentMarkPaid(ctx, payment, organizationID, sub.ID); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionPaymentRecorded, models.EntityTypePayment, &payment.ID, map[string]interface{}{
		"subscription_id": sub.ID,
		"amount":          amount,
	})

	return payment, nil
}

func (s *BillingServiceImpl) CreatePayment(ctx context.Context, organizationID string, userID *string, req *dto.CreatePaymentRequest) (*models.Payment, error) {
	if req.SubscriptionID != nil {
		if _, err := s.subRepo.FindByID(ctx, organizationID, *req.SubscriptionID); err != nil {
			if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
				return nil, apperrors.ErrSubscriptionNotFound
			}
			return nil, apperrors.StorageError(err)
		}
	}
	if req.InvoiceID != nil {
		if _, err := s.billingRepo.FindInvoiceByID(ctx, organizationID, *req.InvoiceID); err != nil {
			if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
				return nil, apperrors.ErrInvoiceNotFound
			}
			return nil, apperrors.StorageError(err)
		}
	}

	paidAt := time.Now()
	if req.PaidAt != "" {
		t, err := time.Parse(dateLayout, req.PaidAt)
		if err != nil {
			return nil, apperrors.NewBadRequestError("paid_at must be a YYYY-MM-DD date")
		}
		paidAt = t
	}

	payment := &models.Payment{
		OrganizationID: organizationID,
		SubscriptionID: req.SubscriptionID,
		InvoiceID:      req.InvoiceID,
		Amount:         req.Amount,
		Method:         models.PaymentMethod(req.Method),
		Reference:      req.Reference,
		Notes:          req.Notes,
		PaidAt:         paidAt,
	}

	if err := s.billingRepo.CreatePayment(ctx, payment); err != nil {
		return nil, apperrors.StorageError(err)
	}

	// Платеж по счету закрывает счет
	if req.InvoiceID != nil {
		now := time.Now()
		if err := s.billingRepo.UpdateInvoiceStatus(ctx, organizationID, *req.InvoiceID, models.InvoiceStatusPaid, &now); err != nil {
			return nil, apperrors.StorageError(err)
		}
	}

	s.activity.Log(ctx, organizationID, userID, ActionPaymentRecorded, models.EntityTypePayment, &payment.ID, map[string]interface{}{
		"amount": payment.Amount,
		"method": string(payment.Method),
	})

	return payment, nil
}

func (s *BillingServiceImpl) ListPayments(ctx context.Context, organizationID string, q *dto.PaymentListQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	payments, total, err := s.billingRepo.ListPayments(ctx, organizationID, q.SubscriptionID, models.PaymentMethod(q.Method), q.Offset(), q.Limit)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	return dto.NewPaginatedResponse(payments, total, q.Page, q.Limit), nil
}

func (s *BillingServiceImpl) CreateInvoice(ctx context.Context, organizationID string, userID *string, req *dto.CreateInvoiceRequest) (*models.Invoice, error) {
	if _, err := s.subRepo.FindByID(ctx, organizationID, req.SubscriptionID); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("due_date must be a YYYY-MM-DD date")
	}

	number, err := s.billingRepo.NextInvoiceNumber(ctx, organizationID, time.Now().Year())
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	invoice := &models.Invoice{
		OrganizationID: organizationID,
		SubscriptionID: req.SubscriptionID,
		InvoiceNumber:  number,
		Amount:         req.Amount,
		Status:         models.InvoiceStatusDraft,
		DueDate:        &dueDate,
	}

	if err := s.billingRepo.CreateInvoice(ctx, invoice); err != nil {
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionInvoiceCreated, models.EntityTypeInvoice, &invoice.ID, map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"amount":         invoice.Amount,
	})

	return invoice, nil
}

func (s *BillingServiceImpl) GetInvoice(ctx context.Context, organizationID, id string) (*models.Invoice, error) {
	invoice, err := s.billingRepo.FindInvoiceByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.StorageError(err)
	}
	return invoice, nil
}

func (s *BillingServiceImpl) UpdateInvoiceStatus(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateInvoiceStatusRequest) (*models.Invoice, error) {
	status := models.InvoiceStatus(req.Status)

	var paidDate *time.Time
	if status == models.InvoiceStatusPaid {
		when := time.Now()
		if req.PaidDate != "" {
			parsed, err := time.Parse(dateLayout, req.PaidDate)
			if err != nil {
				return nil, apperrors.NewBadRequestError("paid_date must be a YYYY-MM-DD date")
			}
			when = parsed
		}
		paidDate = &when
	}

	if err := s.billingRepo.UpdateInvoiceStatus(ctx, organizationID, id, status, paidDate); err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionInvoiceUpdated, models.EntityTypeInvoice, &id, map[string]interface{}{
		"status": req.Status,
	})

	return s.GetInvoice(ctx, organizationID, id)
}

func (s *BillingServiceImpl) ListInvoices(ctx context.Context, organizationID string, q *dto.InvoiceListQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	invoices, total, err := s.billingRepo.ListInvoices(ctx, organizationID, models.InvoiceStatus(q.Status), q.Offset(), q.Limit)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	return dto.NewPaginatedResponse(invoices, total, q.Page, q.Limit), nil
}

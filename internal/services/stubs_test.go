package services

import (
	"context"
	"fmt"
	"time"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/reconciler"
	"subtrack_backend/internal/repositories"
)

// In-memory репозитории для юнит-тестов сервисного слоя.

// stubSubscriptionRepo повторяет контракт CreateWithRenewalCount:
// renewal_count = число существующих строк абонента + 1.
type stubSubscriptionRepo struct {
	rows []models.Subscription
	seq  int
	// первые N вызовов CreateWithRenewalCount возвращают конфликт
	conflictsLeft int
}

func (r *stubSubscriptionRepo) ListRows(_ context.Context, organizationID string, f reconciler.Filters) ([]models.Subscription, error) {
	out := make([]models.Subscription, 0, len(r.rows))
	for _, row := range r.rows {
		if organizationID != "" && row.OrganizationID != organizationID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *stubSubscriptionRepo) CreateWithRenewalCount(_ context.Context, sub *models.Subscription) error {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return repositories.ErrRenewalConflict
	}

	count := 0
	for _, row := range r.rows {
		if row.SubscriberID == sub.SubscriberID {
			count++
		}
	}
	sub.RenewalCount = count + 1

	r.seq++
	sub.ID = fmt.Sprintf("row-%d", r.seq)
	sub.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute)

	r.rows = append(r.rows, *sub)
	return nil
}

func (r *stubSubscriptionRepo) FindByID(_ context.Context, organizationID, id string) (*models.Subscription, error) {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].OrganizationID == organizationID {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *stubSubscriptionRepo) FindBySubscriber(_ context.Context, organizationID, subscriberID string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, row := range r.rows {
		if row.OrganizationID == organizationID && row.SubscriberID == subscriberID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubSubscriptionRepo) Update(_ context.Context, sub *models.Subscription) error {
	for i := range r.rows {
		if r.rows[i].ID == sub.ID {
			r.rows[i] = *sub
			return nil
		}
	}
	return repositories.ErrSubscriptionNotFound
}

func (r *stubSubscriptionRepo) Delete(_ context.Context, organizationID, id string) error {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].OrganizationID == organizationID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrSubscriptionNotFound
}

func (r *stubSubscriptionRepo) ExpireDue(_ context.Context, _ string, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *stubSubscriptionRepo) ExpireDueAll(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *stubSubscriptionRepo) CountByStatus(_ context.Context, organizationID string, status models.SubscriptionStatus) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.OrganizationID == organizationID && row.Status == status {
			n++
		}
	}
	return n, nil
}

type stubSubscriberRepo struct {
	known map[string]bool
}

func (r *stubSubscriberRepo) Create(_ context.Context, _ *models.Subscriber) error { return nil }

func (r *stubSubscriberRepo) FindByID(_ context.Context, _, id string) (*models.Subscriber, error) {
	if r.known[id] {
		return &models.Subscriber{BaseModel: models.BaseModel{ID: id}, Name: "Тест"}, nil
	}
	return nil, repositories.ErrSubscriberNotFound
}

func (r *stubSubscriberRepo) List(_ context.Context, _ string, _ repositories.SubscriberListParams) ([]models.Subscriber, int64, error) {
	return nil, 0, nil
}

func (r *stubSubscriberRepo) Update(_ context.Context, _ *models.Subscriber) error { return nil }
func (r *stubSubscriberRepo) Delete(_ context.Context, _, _ string) error          { return nil }

func (r *stubSubscriberRepo) Count(_ context.Context, _ string) (int64, error) {
	return int64(len(r.known)), nil
}

type stubPlanRepo struct {
	known map[string]bool
}

func (r *stubPlanRepo) Create(_ context.Context, _ *models.Plan) error { return nil }

func (r *stubPlanRepo) FindByID(_ context.Context, _, id string) (*models.Plan, error) {
	if r.known[id] {
		return &models.Plan{BaseModel: models.BaseModel{ID: id}, Name: "План"}, nil
	}
	return nil, repositories.ErrPlanNotFound
}

func (r *stubPlanRepo) List(_ context.Context, _ string, _ *bool, _, _ int) ([]models.Plan, int64, error) {
	return nil, 0, nil
}

func (r *stubPlanRepo) Update(_ context.Context, _ *models.Plan) error { return nil }
func (r *stubPlanRepo) Delete(_ context.Context, _, _ string) error    { return nil }

// recordedActivity - одна зафиксированная запись журнала
type recordedActivity struct {
	action     string
	entityType models.EntityType
	details    map[string]interface{}
}

type stubActivity struct {
	entries []recordedActivity
}

func (a *stubActivity) Log(_ context.Context, _ string, _ *string, action string, entityType models.EntityType, _ *string, details map[string]interface{}) {
	a.entries = append(a.entries, recordedActivity{action: action, entityType: entityType, details: details})
}

func (a *stubActivity) List(_ context.Context, _ string, _ *dto.ActivityListQuery) (*dto.PaginatedResponse, error) {
	return nil, nil
}

func (a *stubActivity) LogError(_ context.Context, _ string, _ *string, _ *dto.LogErrorRequest) error {
	return nil
}

func (a *stubActivity) ListErrors(_ context.Context, _ string, _ *dto.PaginationQuery) (*dto.PaginatedResponse, error) {
	return nil, nil
}

type stubBillingRepo struct {
	payments []models.Payment
	// подписки, переведенные в paid атомарным вызовом
	markedPaid []string
}

func (r *stubBillingRepo) CreateInvoice(_ context.Context, _ *models.Invoice) error { return nil }

func (r *stubBillingRepo) FindInvoiceByID(_ context.Context, _, _ string) (*models.Invoice, error) {
	return nil, repositories.ErrInvoiceNotFound
}

func (r *stubBillingRepo) ListInvoices(_ context.Context, _ string, _ models.InvoiceStatus, _, _ int) ([]models.Invoice, int64, error) {
	return nil, 0, nil
}

func (r *stubBillingRepo) UpdateInvoiceStatus(_ context.Context, _, _ string, _ models.InvoiceStatus, _ *time.Time) error {
	return nil
}

func (r *stubBillingRepo) NextInvoiceNumber(_ context.Context, _ string, year int) (string, error) {
	return fmt.Sprintf("INV-%d-0001", year), nil
}

func (r *stubBillingRepo) CreatePayment(_ context.Context, payment *models.Payment) error {
	payment.ID = fmt.Sprintf("pay-%d", len(r.payments)+1)
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *stubBillingRepo) CreatePaymentMarkPaid(_ context.Context, payment *models.Payment, _, subscriptionID string) error {
	payment.ID = fmt.Sprintf("pay-%d", len(r.payments)+1)
	r.payments = append(r.payments, *payment)
	r.markedPaid = append(r.markedPaid, subscriptionID)
	return nil
}

func (r *stubBillingRepo) FindPaymentByID(_ context.Context, _, _ string) (*models.Payment, error) {
	return nil, repositories.ErrPaymentNotFound
}

func (r *stubBillingRepo) ListPayments(_ context.Context, _, _ string, _ models.PaymentMethod, _, _ int) ([]models.Payment, int64, error) {
	return nil, 0, nil
}

func (r *stubBillingRepo) SumPaymentsSince(_ context.Context, _ string, _ time.Time) (float64, error) {
	return 0, nil
}

func (r *stubBillingRepo) MonthlyRevenue(_ context.Context, _ string, _ int) ([]repositories.MonthlyRevenueRow, error) {
	return nil, nil
}

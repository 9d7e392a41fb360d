package services

import (
	"context"
	"testing"
	"time"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billingFixture(paymentStatus models.PaymentStatus) (*BillingServiceImpl, *stubBillingRepo, *stubActivity) {
	subRepo := &stubSubscriptionRepo{rows: []models.Subscription{{
		BaseModel:      models.BaseModel{ID: "row-1", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		OrganizationID: testOrgID,
		SubscriberID:   "sub-a",
		Status:         models.SubscriptionStatusActive,
		PaymentStatus:  paymentStatus,
		Price:          1500,
		RenewalCount:   1,
	}}}
	billingRepo := &stubBillingRepo{}
	act := &stubActivity{}

	svc := &BillingServiceImpl{
		subRepo:     subRepo,
		billingRepo: billingRepo,
		activity:    act,
	}
	return svc, billingRepo, act
}

// Платеж и перевод подписки в paid уходят в хранилище одним
// атомарным вызовом; сумма по умолчанию - цена подписки.
func TestBillingService_MarkPaid(t *testing.T) {
	t.Parallel()

	svc, billingRepo, act := billingFixture(models.PaymentStatusUnpaid)

	payment, err := svc.MarkPaid(context.Background(), testOrgID, nil, "row-1", &dto.MarkPaidRequest{})
	require.NoError(t, err)

	assert.Equal(t, float64(1500), payment.Amount, "сумма по умолчанию берется из подписки")
	assert.Equal(t, models.PaymentMethodCash, payment.Method)

	require.Len(t, billingRepo.payments, 1)
	assert.Equal(t, []string{"row-1"}, billingRepo.markedPaid, "статус подписки меняется тем же вызовом, что пишет платеж")

	require.Len(t, act.entries, 1)
	assert.Equal(t, ActionPaymentRecorded, act.entries[0].action)
}

func TestBillingService_MarkPaid_AlreadyPaid(t *testing.T) {
	t.Parallel()

	svc, billingRepo, _ := billingFixture(models.PaymentStatusPaid)

	_, err := svc.MarkPaid(context.Background(), testOrgID, nil, "row-1", &dto.MarkPaidRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPaid)
	assert.Empty(t, billingRepo.payments, "повторная оплата не создает платеж")
}

func TestBillingService_MarkPaid_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := billingFixture(models.PaymentStatusUnpaid)

	_, err := svc.MarkPaid(context.Background(), testOrgID, nil, "missing", &dto.MarkPaidRequest{})
	assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subtrack_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

type BillingRepository interface {
	// Invoices
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	FindInvoiceByID(ctx context.Context, organizationID, id string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, organizationID string, status models.InvoiceStatus, offset, limit int) ([]models.Invoice, int64, error)
	UpdateInvoiceStatus(ctx context.Context, organizationID, id string, status models.InvoiceStatus, paidDate *time.Time) error
	NextInvoiceNumber(ctx context.Context, organizationID string, year int) (string, error)

	// Payments
	CreatePayment(ctx context.Context, payment *models.Payment) error
	// CreatePaymentMarkPaid создает платеж и переводит payment_status
	// подписки в paid в одной транзакции.
	CreatePaymentMarkPaid(ctx context.Context, payment *models.Payment, organizationID, subscriptionID string) error
	FindPaymentByID(ctx context.Context, organizationID, id string) (*models.Payment, error)
	ListPayments(ctx context.Context, organizationID, subscriptionID string, method models.PaymentMethod, offset, limit int) ([]models.Payment, int64, error)

	// Аналитика по платежам
	SumPaymentsSince(ctx context.Context, organizationID string, since time.Time) (float64, error)
	MonthlyRevenue(ctx context.Context, organizationID string, months int) ([]MonthlyRevenueRow, error)
}

type MonthlyRevenueRow struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type BillingRepositoryImpl struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &BillingRepositoryImpl{db: db}
}

// Invoices

func (r *BillingRepositoryImpl) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *BillingRepositoryImpl) FindInvoiceByID(ctx context.Context, organizationID, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Subscription").
		Preload("Subscription.Subscriber").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *BillingRepositoryImpl) ListInvoices(ctx context.Context, organizationID string, status models.InvoiceStatus, offset, limit int) ([]models.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("organization_id = ?", organizationID)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []models.Invoice
	err := q.Preload("Subscription").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *BillingRepositoryImpl) UpdateInvoiceStatus(ctx context.Context, organizationID, id string, status models.InvoiceStatus, paidDate *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if paidDate != nil {
		updates["paid_date"] = paidDate
	}

	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("organization_id = ? AND id = ?", organizationID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// NextInvoiceNumber выдает следующий номер счета вида INV-2025-0042.
// Нумерация сквозная в пределах организации и года.
func (r *BillingRepositoryImpl) NextInvoiceNumber(ctx context.Context, organizationID string, year int) (string, error) {
	var count int64
	prefix := fmt.Sprintf("INV-%d-", year)
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("organization_id = ? AND invoice_number LIKE ?", organizationID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// Payments

func (r *BillingRepositoryImpl) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *BillingRepositoryImpl) CreatePaymentMarkPaid(ctx context.Context, payment *models.Payment, organizationID, subscriptionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Subscription{}).
			Where("organization_id = ? AND id = ?", organizationID, subscriptionID).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentStatusPaid,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubscriptionNotFound
		}
		return nil
	})
}

func (r *BillingRepositoryImpl) FindPaymentByID(ctx context.Context, organizationID, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Subscription").
		Preload("Invoice").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *BillingRepositoryImpl) ListPayments(ctx context.Context, organizationID, subscriptionID string, method models.PaymentMethod, offset, limit int) ([]models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("organization_id = ?", organizationID)

	if subscriptionID != "" {
		q = q.Where("subscription_id = ?", subscriptionID)
	}
	if method != "" {
		q = q.Where("method = ?", method)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := q.Preload("Subscription").
		Order("paid_at DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// Аналитика

func (r *BillingRepositoryImpl) SumPaymentsSince(ctx context.Context, organizationID string, since time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("organization_id = ? AND paid_at >= ?", organizationID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *BillingRepositoryImpl) MonthlyRevenue(ctx context.Context, organizationID string, months int) ([]MonthlyRevenueRow, error) {
	since := time.Now().AddDate(0, -months, 0)

	var rows []MonthlyRevenueRow
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("to_char(paid_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS revenue").
		Where("organization_id = ? AND paid_at >= ?", organizationID, since).
		Group("to_char(paid_at, 'YYYY-MM')").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

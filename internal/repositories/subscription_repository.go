package repositories

import (
	"context"
	"errors"
	"time"

	"subtrack_backend/internal/models"
	"subtrack_backend/internal/reconciler"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrRenewalConflict      = errors.New("concurrent renewal detected")
)

type SubscriptionRepository interface {
	// ListRows реализует reconciler.RowSource
	ListRows(ctx context.Context, organizationID string, f reconciler.Filters) ([]models.Subscription, error)

	CreateWithRenewalCount(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, organizationID, id string) (*models.Subscription, error)
	FindBySubscriber(ctx context.Context, organizationID, subscriberID string) ([]models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, organizationID, id string) error

	// ExpireDue переводит просроченные активные подписки в expired.
	// Возвращает число обновленных строк.
	ExpireDue(ctx context.Context, organizationID string, today time.Time) (int64, error)
	ExpireDueAll(ctx context.Context, today time.Time) (int64, error)

	CountByStatus(ctx context.Context, organizationID string, status models.SubscriptionStatus) (int64, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

// ListRows отдает строки организации для конвейера согласования.
// В запрос уходят только дешевые фильтры (subscriber_id, payment_status);
// схлопывание, статусный фильтр и сортировка - в конвейере.
func (r *SubscriptionRepositoryImpl) ListRows(ctx context.Context, organizationID string, f reconciler.Filters) ([]models.Subscription, error) {
	q := r.db.WithContext(ctx).
		Preload("Subscriber").
		Preload("Plan").
		Where("organization_id = ?", organizationID)

	if f.SubscriberID != "" {
		q = q.Where("subscriber_id = ?", f.SubscriberID)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}

	var rows []models.Subscription
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// CreateWithRenewalCount создает подписку, присваивая renewal_count по
// числу существующих строк абонента. Advisory lock сериализует
// конкурентные продления одного абонента; уникальный индекс
// (subscriber_id, renewal_count) страхует от гонки на уровне БД.
func (r *SubscriptionRepositoryImpl) CreateWithRenewalCount(ctx context.Context, sub *models.Subscription) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", sub.SubscriberID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Subscription{}).
			Where("subscriber_id = ?", sub.SubscriberID).
			Count(&count).Error; err != nil {
			return err
		}

		sub.RenewalCount = int(count) + 1
		return tx.Create(sub).Error
	})

	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrRenewalConflict
	}
	return err
}

func (r *SubscriptionRepositoryImpl) FindByID(ctx context.Context, organizationID, id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Subscriber").
		Preload("Plan").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindBySubscriber(ctx context.Context, organizationID, subscriberID string) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("organization_id = ? AND subscriber_id = ?", organizationID, subscriberID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *models.Subscription) error {
	result := r.db.WithContext(ctx).Model(sub).Updates(map[string]interface{}{
		"plan_id":        sub.PlanID,
		"status":         sub.Status,
		"payment_status": sub.PaymentStatus,
		"price":          sub.Price,
		"start_date":     sub.StartDate,
		"end_date":       sub.EndDate,
		"notes":          sub.Notes,
		"updated_at":     time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, organizationID, id string) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ExpireDue(ctx context.Context, organizationID string, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("organization_id = ? AND status = ? AND end_date < ?",
			organizationID, models.SubscriptionStatusActive, today.Format("2006-01-02")).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *SubscriptionRepositoryImpl) ExpireDueAll(ctx context.Context, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?",
			models.SubscriptionStatusActive, today.Format("2006-01-02")).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *SubscriptionRepositoryImpl) CountByStatus(ctx context.Context, organizationID string, status models.SubscriptionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("organization_id = ? AND status = ?", organizationID, status).
		Count(&count).Error
	return count, err
}

package repositories

import (
	"context"
	"errors"

	"subtrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubscriberNotFound = errors.New("subscriber not found")

type SubscriberListParams struct {
	Search   string
	IsActive *bool
	Offset   int
	Limit    int
}

type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	FindByID(ctx context.Context, organizationID, id string) (*models.Subscriber, error)
	List(ctx context.Context, organizationID string, params SubscriberListParams) ([]models.Subscriber, int64, error)
	Update(ctx context.Context, subscriber *models.Subscriber) error
	Delete(ctx context.Context, organizationID, id string) error
	Count(ctx context.Context, organizationID string) (int64, error)
}

type SubscriberRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &SubscriberRepositoryImpl{db: db}
}

func (r *SubscriberRepositoryImpl) Create(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *SubscriberRepositoryImpl) FindByID(ctx context.Context, organizationID, id string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&subscriber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}
	return &subscriber, nil
}

// List возвращает страницу абонентов и общее число до среза.
// SubscriptionCount заполняется подзапросом, в БД поле не хранится.
func (r *SubscriberRepositoryImpl) List(ctx context.Context, organizationID string, params SubscriberListParams) ([]models.Subscriber, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("organization_id = ?", organizationID)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}
	if params.IsActive != nil {
		q = q.Where("is_active = ?", *params.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subscribers []models.Subscriber
	err := q.
		Select("subscribers.*, (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = subscribers.id) AS subscription_count").
		Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&subscribers).Error
	if err != nil {
		return nil, 0, err
	}

	return subscribers, total, nil
}

func (r *SubscriberRepositoryImpl) Update(ctx context.Context, subscriber *models.Subscriber) error {
	result := r.db.WithContext(ctx).Model(subscriber).Updates(map[string]interface{}{
		"name":      subscriber.Name,
		"email":     subscriber.Email,
		"phone":     subscriber.Phone,
		"address":   subscriber.Address,
		"notes":     subscriber.Notes,
		"is_active": subscriber.IsActive,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

func (r *SubscriberRepositoryImpl) Count(ctx context.Context, organizationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return count, err
}

func (r *SubscriberRepositoryImpl) Delete(ctx context.Context, organizationID, id string) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		Delete(&models.Subscriber{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

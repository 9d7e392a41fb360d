package repositories

import (
	"context"

	"subtrack_backend/internal/models"

	"gorm.io/gorm"
)

type ActivityListParams struct {
	EntityType string
	EntityID   string
	Action     string
	Offset     int
	Limit      int
}

type ActivityRepository interface {
	CreateActivity(ctx context.Context, entry *models.ActivityLog) error
	ListActivity(ctx context.Context, organizationID string, params ActivityListParams) ([]models.ActivityLog, int64, error)
	CreateError(ctx context.Context, entry *models.ErrorLog) error
	ListErrors(ctx context.Context, organizationID string, offset, limit int) ([]models.ErrorLog, int64, error)
}

type ActivityRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (r *ActivityRepositoryImpl) CreateActivity(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityRepositoryImpl) ListActivity(ctx context.Context, organizationID string, params ActivityListParams) ([]models.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Where("organization_id = ?", organizationID)

	if params.EntityType != "" {
		q = q.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != "" {
		q = q.Where("entity_id = ?", params.EntityID)
	}
	if params.Action != "" {
		q = q.Where("action = ?", params.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.ActivityLog
	err := q.Preload("User").
		Order("created_at DESC").
		Offset(params.Offset).Limit(params.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *ActivityRepositoryImpl) CreateError(ctx context.Context, entry *models.ErrorLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityRepositoryImpl) ListErrors(ctx context.Context, organizationID string, offset, limit int) ([]models.ErrorLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ErrorLog{}).
		Where("organization_id = ?", organizationID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.ErrorLog
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

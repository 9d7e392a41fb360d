package repositories

import (
	"context"
	"errors"

	"subtrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("plan not found")

type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	FindByID(ctx context.Context, organizationID, id string) (*models.Plan, error)
	List(ctx context.Context, organizationID string, isActive *bool, offset, limit int) ([]models.Plan, int64, error)
	Update(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, organizationID, id string) error
}

type PlanRepositoryImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &PlanRepositoryImpl{db: db}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *PlanRepositoryImpl) FindByID(ctx context.Context, organizationID, id string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepositoryImpl) List(ctx context.Context, organizationID string, isActive *bool, offset, limit int) ([]models.Plan, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Plan{}).
		Where("organization_id = ?", organizationID)

	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plans []models.Plan
	err := q.Order("price ASC").Offset(offset).Limit(limit).Find(&plans).Error
	if err != nil {
		return nil, 0, err
	}

	return plans, total, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *models.Plan) error {
	result := r.db.WithContext(ctx).Model(plan).Updates(map[string]interface{}{
		"name":         plan.Name,
		"description":  plan.Description,
		"price":        plan.Price,
		"period_value": plan.PeriodValue,
		"period_unit":  plan.PeriodUnit,
		"is_active":    plan.IsActive,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *PlanRepositoryImpl) Delete(ctx context.Context, organizationID, id string) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		Delete(&models.Plan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

package services

import (
	"context"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"
)

type PlanService interface {
	List(ctx context.Context, organizationID string, q *dto.PlanListQuery) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, organizationID, id string) (*models.Plan, error)
	Create(ctx context.Context, organizationID string, userID *string, req *dto.CreatePlanRequest) (*models.Plan, error)
	Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdatePlanRequest) (*models.Plan, error)
	Delete(ctx context.Context, organizationID string, userID *string, id string) error
}

type PlanServiceImpl struct {
	planRepo repositories.PlanRepository
	activity ActivityService
}

func NewPlanService(planRepo repositories.PlanRepository, activity ActivityService) PlanService {
	return &PlanServiceImpl{planRepo: planRepo, activity: activity}
}

func (s *PlanServiceImpl) List(ctx context.Context, organizationID string, q *dto.PlanListQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	plans, total, err := s.planRepo.List(ctx, organizationID, q.IsActive, q.Offset(), q.Limit)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	return dto.NewPaginatedResponse(plans, total, q.Page, q.Limit), nil
}

func (s *PlanServiceImpl) Get(ctx context.Context, organizationID, id string) (*models.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.StorageError(err)
	}
	return plan, nil
}

func (s *PlanServiceImpl) Create(ctx context.Context, organizationID string, userID *string, req *dto.CreatePlanRequest) (*models.Plan, error) {
	plan := &models.Plan{
		OrganizationID: organizationID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		PeriodValue:    req.PeriodValue,
		PeriodUnit:     models.PeriodUnit(req.PeriodUnit),
		IsActive:       true,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionPlanCreated, models.EntityTypePlan, &plan.ID, map[string]interface{}{
		"name": plan.Name,
	})

	return plan, nil
}

func (s *PlanServiceImpl) Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdatePlanRequest) (*models.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.PeriodValue != nil {
		plan.PeriodValue = *req.PeriodValue
	}
	if req.PeriodUnit != nil {
		plan.PeriodUnit = models.PeriodUnit(*req.PeriodUnit)
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionPlanUpdated, models.EntityTypePlan, &plan.ID, nil)

	return plan, nil
}

func (s *PlanServiceImpl) Delete(ctx context.Context, organizationID string, userID *string, id string) error {
	if err := s.planRepo.Delete(ctx, organizationID, id); err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return apperrors.ErrPlanNotFound
		}
		return apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionPlanDeleted, models.EntityTypePlan, &id, nil)
	return nil
}

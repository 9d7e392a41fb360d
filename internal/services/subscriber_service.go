package services

import (
	"context"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"
)

type SubscriberService interface {
	List(ctx context.Context, organizationID string, q *dto.SubscriberListQuery) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, organizationID, id string) (*models.Subscriber, error)
	Create(ctx context.Context, organizationID string, userID *string, req *dto.CreateSubscriberRequest) (*models.Subscriber, error)
	Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateSubscriberRequest) (*models.Subscriber, error)
	Delete(ctx context.Context, organizationID string, userID *string, id string) error
}

type SubscriberServiceImpl struct {
	subscriberRepo repositories.SubscriberRepository
	activity       ActivityService
}

func NewSubscriberService(subscriberRepo repositories.SubscriberRepository, activity ActivityService) SubscriberService {
	return &SubscriberServiceImpl{
		subscriberRepo: subscriberRepo,
		activity:       activity,
	}
}

func (s *SubscriberServiceImpl) List(ctx context.Context, organizationID string, q *dto.SubscriberListQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	subscribers, total, err := s.subscriberRepo.List(ctx, organizationID, repositories.SubscriberListParams{
		Search:   q.Search,
		IsActive: q.IsActive,
		Offset:   q.Offset(),
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	return dto.NewPaginatedResponse(subscribers, total, q.Page, q.Limit), nil
}

func (s *SubscriberServiceImpl) Get(ctx context.Context, organizationID, id string) (*models.Subscriber, error) {
	subscriber, err := s.subscriberRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriberNotFound) {
			return nil, apperrors.ErrSubscriberNotFound
		}
		return nil, apperrors.StorageError(err)
	}
	return subscriber, nil
}

func (s *SubscriberServiceImpl) Create(ctx context.Context, organizationID string, userID *string, req *dto.CreateSubscriberRequest) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{
		OrganizationID: organizationID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Notes:          req.Notes,
		IsActive:       true,
	}

	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionSubscriberCreated, models.EntityTypeSubscriber, &subscriber.ID, map[string]interface{}{
		"name": subscriber.Name,
	})

	return subscriber, nil
}

func (s *SubscriberServiceImpl) Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateSubscriberRequest) (*models.Subscriber, error) {
	subscriber, err := s.subscriberRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriberNotFound) {
			return nil, apperrors.ErrSubscriberNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	if req.Name != nil {
		subscriber.Name = *req.Name
	}
	if req.Email != nil {
		subscriber.Email = req.Email
	}
	if req.Phone != nil {
		subscriber.Phone = req.Phone
	}
	if req.Notes != nil {
		subscriber.Notes = req.Notes
	}
	if req.IsActive != nil {
		subscriber.IsActive = *req.IsActive
	}

	if err := s.subscriberRepo.Update(ctx, subscriber); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriberNotFound) {
			return nil, apperrors.ErrSubscriberNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionSubscriberUpdated, models.EntityTypeSubscriber, &subscriber.ID, nil)

	return subscriber, nil
}

func (s *SubscriberServiceImpl) Delete(ctx context.Context, organizationID string, userID *string, id string) error {
	if err := s.subscriberRepo.Delete(ctx, organizationID, id); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriberNotFound) {
			return apperrors.ErrSubscriberNotFound
		}
		return apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionSubscriberDeleted, models.EntityTypeSubscriber, &id, nil)
	return nil
}

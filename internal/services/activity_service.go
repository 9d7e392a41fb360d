package services

import (
	"context"
	"encoding/json"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/logger"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Действия, попадающие в журнал. Значения - часть API ответа,
// менять без миграции данных нельзя.
const (
	ActionSubscriberCreated   = "subscriber_created"
	ActionSubscriberUpdated   = "subscriber_updated"
	ActionSubscriberDeleted   = "subscriber_deleted"
	ActionSubscriptionCreated = "subscription_created"
	ActionSubscriptionUpdated = "subscription_updated"
	ActionSubscriptionDeleted = "subscription_deleted"
	ActionGroupCreated        = "group_created"
	ActionGroupUpdated        = "group_updated"
	ActionGroupDeleted        = "group_deleted"
	ActionGroupMemberAdded    = "group_member_added"
	ActionGroupMemberRemoved  = "group_member_removed"
	ActionPlanCreated         = "plan_created"
	ActionPlanUpdated         = "plan_updated"
	ActionPlanDeleted         = "plan_deleted"
	ActionPaymentRecorded     = "payment_recorded"
	ActionInvoiceCreated      = "invoice_created"
	ActionInvoiceUpdated      = "invoice_updated"
	ActionUserLoggedIn        = "user_logged_in"
)

type ActivityService interface {
	// Log пишет запись журнала best-effort: ошибка записи логируется,
	// но не возвращается наверх.
	Log(ctx context.Context, organizationID string, userID *string, action string, entityType models.EntityType, entityID *string, details map[string]interface{})
	List(ctx context.Context, organizationID string, q *dto.ActivityListQuery) (*dto.PaginatedResponse, error)
	LogError(ctx context.Context, organizationID string, userID *string, req *dto.LogErrorRequest) error
	ListErrors(ctx context.Context, organizationID string, q *dto.PaginationQuery) (*dto.PaginatedResponse, error)
}

type ActivityServiceImpl struct {
	activityRepo repositories.ActivityRepository
}

func NewActivityService(activityRepo repositories.ActivityRepository) ActivityService {
	return &ActivityServiceImpl{activityRepo: activityRepo}
}

func (s *ActivityServiceImpl) Log(ctx context.Context, organizationID string, userID *string, action string, entityType models.EntityType, entityID *string, details map[string]interface{}) {
	entry := &models.ActivityLog{
		OrganizationID: organizationID,
		UserID:         userID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
	}

	if details != nil {
		raw, err := json.Marshal(details)
		if err == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := s.activityRepo.CreateActivity(ctx, entry); err != nil {
		logger.CtxWithError(ctx, "Failed to write activity log", err, "action", action)
	}
}

func (s *ActivityServiceImpl) List(ctx context.Context, organizationID string, q *dto.ActivityListQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	entries, total, err := s.activityRepo.ListActivity(ctx, organizationID, repositories.ActivityListParams{
		EntityType: q.EntityType,
		EntityID:   q.EntityID,
		Action:     q.Action,
		Offset:     q.Offset(),
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	return dto.NewPaginatedResponse(entries, total, q.Page, q.Limit), nil
}

func (s *ActivityServiceImpl) LogError(ctx context.Context, organizationID string, userID *string, req *dto.LogErrorRequest) error {
	entry := &models.ErrorLog{
		OrganizationID: organizationID,
		UserID:         userID,
		Message:        req.Message,
		Stack:          req.Stack,
		URL:            req.URL,
		UserAgent:      req.UserAgent,
	}
	if err := s.activityRepo.CreateError(ctx, entry); err != nil {
		return apperrors.StorageError(err)
	}
	return nil
}

func (s *ActivityServiceImpl) ListErrors(ctx context.Context, organizationID string, q *dto.PaginationQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	entries, total, err := s.activityRepo.ListErrors(ctx, organizationID, q.Offset(), q.Limit)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	return dto.NewPaginatedResponse(entries, total, q.Page, q.Limit), nil
}

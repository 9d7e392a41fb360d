package services

import (
	"context"
	"time"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/logger"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/reconciler"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"
)

const dateLayout = "2006-01-02"

type SubscriptionService interface {
	List(ctx context.Context, organizationID string, q *dto.SubscriptionListQuery) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, organizationID, id string) (*dto.SubscriptionResponse, error)
	History(ctx context.Context, organizationID, subscriberID string) ([]dto.SubscriptionResponse, error)
	Create(ctx context.Context, organizationID string, userID *string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Delete(ctx context.Context, organizationID string, userID *string, id string) error
	// ExpireDue - идемпотентный персистентный обход просрочки в рамках организации
	ExpireDue(ctx context.Context, organizationID string) (int64, error)
}

type SubscriptionServiceImpl struct {
	source         reconciler.RowSource
	subRepo        repositories.SubscriptionRepository
	subscriberRepo repositories.SubscriberRepository
	planRepo       repositories.PlanRepository
	activity       ActivityService
}

func NewSubscriptionService(
	source reconciler.RowSource,
	subRepo repositories.SubscriptionRepository,
	subscriberRepo repositories.SubscriberRepository,
	planRepo repositories.PlanRepository,
	activity ActivityService,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		source:         source,
		subRepo:        subRepo,
		subscriberRepo: subscriberRepo,
		planRepo:       planRepo,
		activity:       activity,
	}
}

// List - список подписок через конвейер согласования: авто-истечение,
// схлопывание до лучшей строки абонента, фильтры, сортировка, пагинация.
// Статусы в БД при этом не меняются - персистентное истечение делает
// фоновый воркер.
func (s *SubscriptionServiceImpl) List(ctx context.Context, organizationID string, q *dto.SubscriptionListQuery) (*dto.PaginatedResponse, error) {
	q.Normalize()

	f := reconciler.Filters{
		Status:        models.SubscriptionStatus(q.Status),
		Search:        q.Search,
		SubscriberID:  q.SubscriberID,
		PaymentStatus: models.PaymentStatus(q.PaymentStatus),
		ExpiringSoon:  q.ExpiringSoon,
	}

	rows, err := s.source.ListRows(ctx, organizationID, f)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	result := reconciler.Reconcile(rows, f, time.Now(), q.Page, q.Limit)

	responses := make([]dto.SubscriptionResponse, 0, len(result.Rows))
	for _, row := range result.Rows {
		responses = append(responses, toSubscriptionResponse(&row))
	}

	return dto.NewPaginatedResponse(responses, result.Total, result.Page, result.Limit), nil
}

func (s *SubscriptionServiceImpl) Get(ctx context.Context, organizationID, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

// History - все строки абонента без схлопывания, свежие первыми.
func (s *SubscriptionServiceImpl) History(ctx context.Context, organizationID, subscriberID string) ([]dto.SubscriptionResponse, error) {
	if _, err := s.subscriberRepo.FindByID(ctx, organizationID, subscriberID); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriberNotFound) {
			return nil, apperrors.ErrSubscriberNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	rows, err := s.subRepo.FindBySubscriber(ctx, organizationID, subscriberID)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	responses := make([]dto.SubscriptionResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, toSubscriptionResponse(&row))
	}
	return responses, nil
}

// Create создает подписку. renewal_count присваивается в репозитории
// под advisory lock; при гонке на уникальном индексе операция
// повторяется один раз.
func (s *SubscriptionServiceImpl) Create(ctx context.Context, organizationID string, userID *string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if _, err := s.subscriberRepo.FindByID(ctx, organizationID, req.SubscriberID); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriberNotFound) {
			return nil, apperrors.ErrSubscriberNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	if req.PlanID != nil {
		if _, err := s.planRepo.FindByID(ctx, organizationID, *req.PlanID); err != nil {
			if apperrors.Is(err, repositories.ErrPlanNotFound) {
				return nil, apperrors.ErrPlanNotFound
			}
			return nil, apperrors.StorageError(err)
		}
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	status := models.SubscriptionStatusActive
	if req.Status != "" {
		status = models.SubscriptionStatus(req.Status)
	}
	paymentStatus := models.PaymentStatusUnpaid
	if req.PaymentStatus != "" {
		paymentStatus = models.PaymentStatus(req.PaymentStatus)
	}

	sub := &models.Subscription{
		OrganizationID: organizationID,
		SubscriberID:   req.SubscriberID,
		PlanID:         req.PlanID,
		Status:         status,
		PaymentStatus:  paymentStatus,
		Price:          req.Price,
		StartDate:      startDate,
		EndDate:        endDate,
		Notes:          req.Notes,
	}

	if err := s.subRepo.CreateWithRenewalCount(ctx, sub); err != nil {
		if apperrors.Is(err, repositories.ErrRenewalConflict) {
			logger.CtxWarn(ctx, "Renewal conflict, retrying once", "subscriber_id", req.SubscriberID)
			sub.BaseModel = models.BaseModel{}
			if err := s.subRepo.CreateWithRenewalCount(ctx, sub); err != nil {
				if apperrors.Is(err, repositories.ErrRenewalConflict) {
					return nil, apperrors.ErrRenewalConflict
				}
				return nil, apperrors.StorageError(err)
			}
		} else {
			return nil, apperrors.StorageError(err)
		}
	}

	// Тег initial/renewal фиксируется в момент создания и не пересчитывается
	activityType := "initial"
	if sub.IsRenewal() {
		activityType = "renewal"
	}
	s.activity.Log(ctx, organizationID, userID, ActionSubscriptionCreated, models.EntityTypeSubscription, &sub.ID, map[string]interface{}{
		"type":          activityType,
		"renewal_count": sub.RenewalCount,
		"subscriber_id": sub.SubscriberID,
	})

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

func (s *SubscriptionServiceImpl) Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	if req.Status != nil {
		newStatus := models.SubscriptionStatus(*req.Status)
		if !models.ValidTransition(sub.Status, newStatus) {
			return nil, apperrors.ErrSubscriptionTerminal
		}
		sub.Status = newStatus
	}

	if req.PlanID != nil {
		if _, err := s.planRepo.FindByID(ctx, organizationID, *req.PlanID); err != nil {
			if apperrors.Is(err, repositories.ErrPlanNotFound) {
				return nil, apperrors.ErrPlanNotFound
			}
			return nil, apperrors.StorageError(err)
		}
		sub.PlanID = req.PlanID
	}

	if req.PaymentStatus != nil {
		sub.PaymentStatus = models.PaymentStatus(*req.PaymentStatus)
	}
	if req.Price != nil {
		sub.Price = *req.Price
	}
	if req.StartDate != nil {
		t, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("start_date must be a YYYY-MM-DD date")
		}
		sub.StartDate = t
	}
	if req.EndDate != nil {
		t, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("end_date must be a YYYY-MM-DD date")
		}
		sub.EndDate = t
	}
	if req.Notes != nil {
		sub.Notes = req.Notes
	}

	if sub.EndDate.Before(sub.StartDate) {
		return nil, apperrors.NewBadRequestError("end_date must not be before start_date")
	}

	if err := s.subRepo.Update(ctx, sub); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionSubscriptionUpdated, models.EntityTypeSubscription, &sub.ID, nil)

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

func (s *SubscriptionServiceImpl) Delete(ctx context.Context, organizationID string, userID *string, id string) error {
	if err := s.subRepo.Delete(ctx, organizationID, id); err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return apperrors.ErrSubscriptionNotFound
		}
		return apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionSubscriptionDeleted, models.EntityTypeSubscription, &id, nil)
	return nil
}

// ExpireDue - ручной запуск персистентного истечения для организации.
// Делает то же, что фоновый воркер, но в рамках одного арендатора.
// Повторный вызов без новых просрочек возвращает ноль.
func (s *SubscriptionServiceImpl) ExpireDue(ctx context.Context, organizationID string) (int64, error) {
	affected, err := s.subRepo.ExpireDue(ctx, organizationID, time.Now())
	if err != nil {
		return 0, apperrors.StorageError(err)
	}

	if affected > 0 {
		logger.CtxInfo(ctx, "Expired overdue subscriptions", "organization_id", organizationID, "count", affected)
	}
	return affected, nil
}

// Helpers

func parseDateRange(start, end string) (time.Time, time.Time, *apperrors.AppError) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("start_date must be a YYYY-MM-DD date")
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("end_date must be a YYYY-MM-DD date")
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("end_date must not be before start_date")
	}
	return startDate, endDate, nil
}

func toSubscriptionResponse(sub *models.Subscription) dto.SubscriptionResponse {
	resp := dto.SubscriptionResponse{
		ID:            sub.ID,
		SubscriberID:  sub.SubscriberID,
		PlanID:        sub.PlanID,
		Status:        string(sub.Status),
		PaymentStatus: string(sub.PaymentStatus),
		Price:         sub.Price,
		StartDate:     sub.StartDate.Format(dateLayout),
		EndDate:       sub.EndDate.Format(dateLayout),
		RenewalCount:  sub.RenewalCount,
		Notes:         sub.Notes,
		CreatedAt:     sub.CreatedAt.Format(time.RFC3339),
	}
	if sub.Subscriber != nil {
		resp.SubscriberName = sub.Subscriber.Name
	}
	if sub.Plan != nil {
		resp.PlanName = &sub.Plan.Name
	}
	return resp
}

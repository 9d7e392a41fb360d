package services

import (
	"context"
	"sort"
	"time"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/reconciler"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"
)

type DashboardService interface {
	Stats(ctx context.Context, organizationID string) (*dto.DashboardStats, error)
	Analytics(ctx context.Context, organizationID string, months int) (*dto.AnalyticsResponse, error)
}

type DashboardServiceImpl struct {
	source         reconciler.RowSource
	subscriberRepo repositories.SubscriberRepository
	billingRepo    repositories.BillingRepository
}

func NewDashboardService(
	source reconciler.RowSource,
	subscriberRepo repositories.SubscriberRepository,
	billingRepo repositories.BillingRepository,
) DashboardService {
	return &DashboardServiceImpl{
		source:         source,
		subscriberRepo: subscriberRepo,
		billingRepo:    billingRepo,
	}
}

// Stats - счетчики дашборда. Подписочные счетчики считаются по
// схлопнутому представлению: абонент с истекшей и активной строкой
// учитывается один раз, как активный.
func (s *DashboardServiceImpl) Stats(ctx context.Context, organizationID string) (*dto.DashboardStats, error) {
	totalSubscribers, err := s.subscriberRepo.Count(ctx, organizationID)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	rows, err := s.source.ListRows(ctx, organizationID, reconciler.Filters{})
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	now := time.Now()
	collapsed := reconciler.Apply(rows, reconciler.Filters{}, now)

	stats := &dto.DashboardStats{TotalSubscribers: totalSubscribers}

	horizon := now.Add(reconciler.ExpiringSoonWindow)
	for _, row := range collapsed {
		if row.Status == models.SubscriptionStatusActive {
			stats.ActiveSubscriptions++
			if !row.EndDate.After(horizon) {
				stats.ExpiringSoon++
			}
		}
		if row.PaymentStatus == models.PaymentStatusUnpaid {
			stats.UnpaidCount++
		}
	}

	// Список ближайших истечений - тот же конвейер, что и expiring_soon фильтр
	expiring := reconciler.Apply(rows, reconciler.Filters{ExpiringSoon: true}, now)
	if len(expiring) > 10 {
		expiring = expiring[:10]
	}
	stats.ExpiringSubscriptions = make([]dto.SubscriptionResponse, 0, len(expiring))
	for _, row := range expiring {
		stats.ExpiringSubscriptions = append(stats.ExpiringSubscriptions, toSubscriptionResponse(&row))
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	revenue, err := s.billingRepo.SumPaymentsSince(ctx, organizationID, monthStart)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	stats.MonthlyRevenue = revenue

	return stats, nil
}

// Analytics - выручка по месяцам и распределения по планам и статусам.
// Распределения тоже считаются по схлопнутому представлению.
func (s *DashboardServiceImpl) Analytics(ctx context.Context, organizationID string, months int) (*dto.AnalyticsResponse, error) {
	if months < 1 || months > 36 {
		months = 12
	}

	revenueRows, err := s.billingRepo.MonthlyRevenue(ctx, organizationID, months)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	rows, err := s.source.ListRows(ctx, organizationID, reconciler.Filters{})
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	collapsed := reconciler.Apply(rows, reconciler.Filters{}, time.Now())

	resp := &dto.AnalyticsResponse{
		MonthlyRevenue:     make([]dto.MonthlyRevenuePoint, 0, len(revenueRows)),
		PlanDistribution:   []dto.PlanDistributionItem{},
		StatusDistribution: []dto.StatusDistributionItem{},
	}

	for _, r := range revenueRows {
		resp.MonthlyRevenue = append(resp.MonthlyRevenue, dto.MonthlyRevenuePoint{
			Month:   r.Month,
			Revenue: r.Revenue,
		})
	}

	type planKey struct {
		id   string
		name string
	}
	planCounts := make(map[planKey]int64)
	statusCounts := make(map[string]int64)

	for _, row := range collapsed {
		statusCounts[string(row.Status)]++

		if row.Status != models.SubscriptionStatusActive {
			continue
		}
		key := planKey{name: "No plan"}
		if row.PlanID != nil {
			key.id = *row.PlanID
			if row.Plan != nil {
				key.name = row.Plan.Name
			} else {
				key.name = *row.PlanID
			}
		}
		planCounts[key]++
	}

	for key, count := range planCounts {
		item := dto.PlanDistributionItem{PlanName: key.name, Count: count}
		if key.id != "" {
			id := key.id
			item.PlanID = &id
		}
		resp.PlanDistribution = append(resp.PlanDistribution, item)
	}
	for status, count := range statusCounts {
		resp.StatusDistribution = append(resp.StatusDistribution, dto.StatusDistributionItem{
			Status: status,
			Count:  count,
		})
	}

	// Стабильный порядок в ответе
	sort.Slice(resp.PlanDistribution, func(i, j int) bool {
		if resp.PlanDistribution[i].Count != resp.PlanDistribution[j].Count {
			return resp.PlanDistribution[i].Count > resp.PlanDistribution[j].Count
		}
		return resp.PlanDistribution[i].PlanName < resp.PlanDistribution[j].PlanName
	})
	sort.Slice(resp.StatusDistribution, func(i, j int) bool {
		return resp.StatusDistribution[i].Status < resp.StatusDistribution[j].Status
	})

	return resp, nil
}

package services

import (
	"context"
	"testing"
	"time"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/reconciler"
	"subtrack_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgID = "org-1"

func fixtureRow(id, subscriberID string, status models.SubscriptionStatus, end string, created time.Time) models.Subscription {
	endDate, _ := time.Parse(dateLayout, end)
	return models.Subscription{
		BaseModel:      models.BaseModel{ID: id, CreatedAt: created},
		OrganizationID: testOrgID,
		SubscriberID:   subscriberID,
		Status:         status,
		PaymentStatus:  models.PaymentStatusPaid,
		Price:          1000,
		StartDate:      endDate.AddDate(0, -1, 0),
		EndDate:        endDate,
		RenewalCount:   1,
	}
}

func fixtureService(rows []models.Subscription) *SubscriptionServiceImpl {
	return &SubscriptionServiceImpl{
		source: &reconciler.FixtureSource{Rows: rows},
	}
}

// Список схлопывает историю абонента до одной лучшей строки
// и не модифицирует статусы в источнике.
func TestSubscriptionService_List_Collapse(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.Subscription{
		// Абонент A: старая истекшая строка + действующее продление
		fixtureRow("a-1", "sub-a", models.SubscriptionStatusActive, "2020-01-31", base),
		fixtureRow("a-2", "sub-a", models.SubscriptionStatusActive, "2099-01-31", base.AddDate(0, 1, 0)),
		// Абонент B: только просроченная строка
		fixtureRow("b-1", "sub-b", models.SubscriptionStatusActive, "2020-06-30", base),
	}
	svc := fixtureService(rows)

	resp, err := svc.List(context.Background(), testOrgID, &dto.SubscriptionListQuery{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Total, "по одной строке на абонента")

	items, ok := resp.Data.([]dto.SubscriptionResponse)
	require.True(t, ok)
	require.Len(t, items, 2)

	byID := map[string]dto.SubscriptionResponse{}
	for _, item := range items {
		byID[item.ID] = item
	}
	assert.Equal(t, "active", byID["a-2"].Status, "у абонента A выигрывает действующее продление")
	assert.Equal(t, "expired", byID["b-1"].Status, "просроченная строка показывается как expired")

	// Источник не тронут
	assert.Equal(t, models.SubscriptionStatusActive, rows[2].Status)
}

func TestSubscriptionService_List_StatusFilter(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := fixtureService([]models.Subscription{
		fixtureRow("a-1", "sub-a", models.SubscriptionStatusActive, "2099-01-31", base),
		fixtureRow("b-1", "sub-b", models.SubscriptionStatusActive, "2020-06-30", base),
	})

	resp, err := svc.List(context.Background(), testOrgID, &dto.SubscriptionListQuery{Status: "expired"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total, "фильтр статуса видит вычисленный expired")

	items := resp.Data.([]dto.SubscriptionResponse)
	require.Len(t, items, 1)
	assert.Equal(t, "b-1", items[0].ID)
}

// История конкретного абонента не схлопывается
func TestSubscriptionService_List_SubscriberHistory(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := fixtureService([]models.Subscription{
		fixtureRow("a-1", "sub-a", models.SubscriptionStatusActive, "2020-01-31", base),
		fixtureRow("a-2", "sub-a", models.SubscriptionStatusActive, "2099-01-31", base.AddDate(0, 1, 0)),
	})

	resp, err := svc.List(context.Background(), testOrgID, &dto.SubscriptionListQuery{SubscriberID: "sub-a"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total, "при фильтре по абоненту видна вся история")
}

func TestSubscriptionService_List_Pagination(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Subscription, 0, 15)
	for i := 0; i < 15; i++ {
		id := string(rune('a'+i)) + "-1"
		rows = append(rows, fixtureRow(id, "sub-"+string(rune('a'+i)), models.SubscriptionStatusActive, "2099-01-31", base.AddDate(0, 0, i)))
	}
	svc := fixtureService(rows)

	resp, err := svc.List(context.Background(), testOrgID, &dto.SubscriptionListQuery{
		PaginationQuery: dto.PaginationQuery{Page: 2, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)

	items := resp.Data.([]dto.SubscriptionResponse)
	assert.Len(t, items, 5, "вторая страница содержит остаток")
}

// Контракт продления: renewal_count строк абонента по порядку создания
// образует последовательность 1, 2, 3, а тег журнала фиксируется
// в момент создания как initial/renewal.
func TestSubscriptionService_Create_RenewalSequence(t *testing.T) {
	t.Parallel()

	repo := &stubSubscriptionRepo{}
	act := &stubActivity{}
	svc := &SubscriptionServiceImpl{
		subRepo:        repo,
		subscriberRepo: &stubSubscriberRepo{known: map[string]bool{"sub-a": true}},
		planRepo:       &stubPlanRepo{},
		activity:       act,
	}

	req := &dto.CreateSubscriptionRequest{
		SubscriberID: "sub-a",
		Price:        1000,
		StartDate:    "2025-01-01",
		EndDate:      "2025-02-01",
	}

	for i := 1; i <= 3; i++ {
		resp, err := svc.Create(context.Background(), testOrgID, nil, req)
		require.NoError(t, err)
		assert.Equal(t, i, resp.RenewalCount, "счетчик продлений растет по порядку создания")
	}

	require.Len(t, act.entries, 3)
	assert.Equal(t, "initial", act.entries[0].details["type"], "первая строка абонента - initial")
	assert.Equal(t, "renewal", act.entries[1].details["type"], "вторая строка - renewal")
	assert.Equal(t, "renewal", act.entries[2].details["type"])
	assert.Equal(t, 2, act.entries[1].details["renewal_count"])
	assert.Equal(t, ActionSubscriptionCreated, act.entries[0].action)

	// Другой абонент начинает свою последовательность заново
	req2 := &dto.CreateSubscriptionRequest{
		SubscriberID: "sub-b",
		Price:        500,
		StartDate:    "2025-01-01",
		EndDate:      "2025-02-01",
	}
	svc.subscriberRepo = &stubSubscriberRepo{known: map[string]bool{"sub-b": true}}
	resp, err := svc.Create(context.Background(), testOrgID, nil, req2)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RenewalCount)
}

func TestSubscriptionService_Create_RetriesRenewalConflictOnce(t *testing.T) {
	t.Parallel()

	newService := func(conflicts int) (*SubscriptionServiceImpl, *stubSubscriptionRepo) {
		repo := &stubSubscriptionRepo{conflictsLeft: conflicts}
		return &SubscriptionServiceImpl{
			subRepo:        repo,
			subscriberRepo: &stubSubscriberRepo{known: map[string]bool{"sub-a": true}},
			planRepo:       &stubPlanRepo{},
			activity:       &stubActivity{},
		}, repo
	}

	req := &dto.CreateSubscriptionRequest{
		SubscriberID: "sub-a",
		Price:        1000,
		StartDate:    "2025-01-01",
		EndDate:      "2025-02-01",
	}

	// Один конфликт - повтор проходит
	svc, repo := newService(1)
	resp, err := svc.Create(context.Background(), testOrgID, nil, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RenewalCount)
	assert.Len(t, repo.rows, 1)

	// Конфликт и на повторе - наружу уходит 409
	svc, repo = newService(2)
	_, err = svc.Create(context.Background(), testOrgID, nil, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRenewalConflict)
	assert.Empty(t, repo.rows)
}

func TestParseDateRange(t *testing.T) {
	t.Parallel()

	start, end, appErr := parseDateRange("2024-01-01", "2024-02-01")
	require.Nil(t, appErr)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), end)

	// Однодневная подписка допустима
	_, _, appErr = parseDateRange("2024-01-01", "2024-01-01")
	assert.Nil(t, appErr)

	_, _, appErr = parseDateRange("2024-02-01", "2024-01-01")
	require.NotNil(t, appErr, "end_date раньше start_date")

	_, _, appErr = parseDateRange("01.02.2024", "2024-02-01")
	require.NotNil(t, appErr, "неверный формат даты")
}

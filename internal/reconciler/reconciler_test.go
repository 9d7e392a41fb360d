package reconciler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"subtrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func row(id, subscriberID string, status models.SubscriptionStatus, endDate string, createdAt time.Time) models.Subscription {
	return models.Subscription{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: createdAt,
		},
		OrganizationID: "org-1",
		SubscriberID:   subscriberID,
		Status:         status,
		PaymentStatus:  models.PaymentStatusPaid,
		StartDate:      date("2025-01-01"),
		EndDate:        date(endDate),
	}
}

// ============================================================
// AutoExpire
// ============================================================

func TestAutoExpire_BoundaryAndIdempotence(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2025-06-14", today), // вчера
		row("s2", "sub-2", models.SubscriptionStatusActive, "2025-06-15", today), // сегодня
		row("s3", "sub-3", models.SubscriptionStatusActive, "2025-06-16", today), // завтра
		row("s4", "sub-4", models.SubscriptionStatusCancelled, "2025-06-01", today),
	}

	out := AutoExpire(rows, today)

	// Истекшей считается только строка с end_date строго раньше сегодня
	assert.Equal(t, models.SubscriptionStatusExpired, out[0].Status)
	assert.Equal(t, models.SubscriptionStatusActive, out[1].Status, "подписка, истекающая сегодня, еще активна")
	assert.Equal(t, models.SubscriptionStatusActive, out[2].Status)
	assert.Equal(t, models.SubscriptionStatusCancelled, out[3].Status, "неактивные статусы не трогаем")

	// Идемпотентность: повторный прогон ничего не меняет
	again := AutoExpire(out, today)
	assert.Equal(t, out, again)
}

func TestAutoExpire_DoesNotMutateInput(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2020-01-01", today),
	}

	_ = AutoExpire(rows, today)

	assert.Equal(t, models.SubscriptionStatusActive, rows[0].Status, "вход должен остаться нетронутым")
}

// ============================================================
// Collapse
// ============================================================

func TestCollapse_OneRowPerSubscriber(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusExpired, "2024-12-31", today.Add(-48*time.Hour)),
		row("s2", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
		row("s3", "sub-2", models.SubscriptionStatusPending, "2025-09-01", today),
	}

	out := Collapse(rows)

	require.Len(t, out, 2)
	seen := make(map[string]bool)
	for _, r := range out {
		assert.False(t, seen[r.SubscriberID], "абонент встретился дважды")
		seen[r.SubscriberID] = true
	}
}

func TestCollapse_StatusRankOrdering(t *testing.T) {
	// active > pending > expired > cancelled
	cases := []struct {
		name   string
		a, b   models.SubscriptionStatus
		winner models.SubscriptionStatus
	}{
		{"active beats pending", models.SubscriptionStatusActive, models.SubscriptionStatusPending, models.SubscriptionStatusActive},
		{"pending beats expired", models.SubscriptionStatusPending, models.SubscriptionStatusExpired, models.SubscriptionStatusPending},
		{"expired beats cancelled", models.SubscriptionStatusExpired, models.SubscriptionStatusCancelled, models.SubscriptionStatusExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := []models.Subscription{
				row("s1", "sub-1", tc.a, "2025-01-10", today),
				row("s2", "sub-1", tc.b, "2025-12-31", today), // дальняя дата не спасает слабый статус
			}
			out := Collapse(rows)
			require.Len(t, out, 1)
			assert.Equal(t, tc.winner, out[0].Status)
		})
	}
}

func TestCollapse_TieBreakByEndDate(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusExpired, "2025-01-10", today),
		row("s2", "sub-1", models.SubscriptionStatusExpired, "2025-02-01", today),
	}

	out := Collapse(rows)

	require.Len(t, out, 1)
	assert.Equal(t, "s2", out[0].ID, "при равном статусе побеждает поздний end_date")
}

func TestCollapse_FinalTieBreakDeterministic(t *testing.T) {
	// Одинаковый статус и end_date: решает поздний created_at, затем id.
	early := today.Add(-time.Hour)
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2025-12-31", early),
		row("s2", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
	}

	out := Collapse(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "s2", out[0].ID)

	// Полный тай: created_at совпадает - побеждает больший id
	rows = []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
		row("s2", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
	}
	out = Collapse(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "s2", out[0].ID)
}

// ============================================================
// Apply: фильтры поверх схлопнутого представления
// ============================================================

func TestApply_StatusFilterAfterCollapse(t *testing.T) {
	// У абонента есть старая истекшая строка и свежая активная.
	// Под status=expired он появляться НЕ должен: его лучшая строка активна.
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusExpired, "2024-12-31", today.Add(-48*time.Hour)),
		row("s2", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
		row("s3", "sub-2", models.SubscriptionStatusExpired, "2025-01-31", today),
	}

	out := Apply(rows, Filters{Status: models.SubscriptionStatusExpired}, today)

	require.Len(t, out, 1)
	assert.Equal(t, "sub-2", out[0].SubscriberID)
}

func TestApply_UnpaidViewSkipsCollapse(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusExpired, "2025-01-31", today),
		row("s2", "sub-1", models.SubscriptionStatusExpired, "2025-02-28", today),
		row("s3", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
	}
	for i := range rows {
		rows[i].PaymentStatus = models.PaymentStatusUnpaid
	}

	out := Apply(rows, Filters{PaymentStatus: models.PaymentStatusUnpaid}, today)

	// Все три неоплаченные строки видны, несмотря на общего абонента
	assert.Len(t, out, 3)
}

func TestApply_SubscriberHistorySkipsCollapse(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusExpired, "2024-06-30", today.Add(-72*time.Hour)),
		row("s2", "sub-1", models.SubscriptionStatusExpired, "2024-12-31", today.Add(-48*time.Hour)),
		row("s3", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
	}

	out := Apply(rows, Filters{SubscriberID: "sub-1"}, today)

	assert.Len(t, out, 3, "режим истории показывает все строки абонента")
}

func TestApply_ExpiringSoon(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2025-06-20", today), // через 5 дней
		row("s2", "sub-2", models.SubscriptionStatusActive, "2025-06-16", today), // через 1 день
		row("s3", "sub-3", models.SubscriptionStatusActive, "2025-09-01", today), // за горизонтом
		row("s4", "sub-4", models.SubscriptionStatusPending, "2025-06-18", today),
		row("s5", "sub-5", models.SubscriptionStatusActive, "2025-06-14", today), // уже истекла
	}

	out := Apply(rows, Filters{ExpiringSoon: true}, today)

	// Только активные в пределах 7 дней, по возрастанию end_date
	require.Len(t, out, 2)
	assert.Equal(t, "sub-2", out[0].SubscriberID)
	assert.Equal(t, "sub-1", out[1].SubscriberID)
}

func TestApply_DefaultSortCreatedAtDesc(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today.Add(-2*time.Hour)),
		row("s2", "sub-2", models.SubscriptionStatusActive, "2025-12-31", today),
		row("s3", "sub-3", models.SubscriptionStatusActive, "2025-12-31", today.Add(-time.Hour)),
	}

	out := Apply(rows, Filters{}, today)

	require.Len(t, out, 3)
	assert.Equal(t, "s2", out[0].ID)
	assert.Equal(t, "s3", out[1].ID)
	assert.Equal(t, "s1", out[2].ID)
}

func TestApply_SearchMatchesSubscriberFields(t *testing.T) {
	email := "ivan@example.com"
	sub := &models.Subscriber{Name: "Иван Петров", Email: &email}

	r1 := row("s1", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today)
	r1.Subscriber = sub
	r2 := row("s2", "sub-2", models.SubscriptionStatusActive, "2025-12-31", today)
	r2.Subscriber = &models.Subscriber{Name: "Anna"}

	out := Apply([]models.Subscription{r1, r2}, Filters{Search: "ivan@"}, today)

	require.Len(t, out, 1)
	assert.Equal(t, "s1", out[0].ID)
}

func TestApply_Deterministic(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusExpired, "2025-01-10", today),
		row("s2", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
		row("s3", "sub-2", models.SubscriptionStatusPending, "2025-07-01", today),
		row("s4", "sub-3", models.SubscriptionStatusActive, "2023-01-01", today),
	}

	first := Apply(rows, Filters{}, today)
	second := Apply(rows, Filters{}, today)

	assert.Equal(t, first, second)
}

// ============================================================
// Пагинация
// ============================================================

func TestPaginate(t *testing.T) {
	rows := make([]models.Subscription, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, row(fmt.Sprintf("s%02d", i), fmt.Sprintf("sub-%02d", i), models.SubscriptionStatusActive, "2025-12-31", today))
	}

	page1 := Paginate(rows, 1, 10)
	assert.Equal(t, int64(25), page1.Total)
	assert.Len(t, page1.Rows, 10)

	page3 := Paginate(rows, 3, 10)
	assert.Len(t, page3.Rows, 5, "последняя страница короткая")
	assert.Equal(t, int64(25), page3.Total, "total всегда считается до среза")

	page4 := Paginate(rows, 4, 10)
	assert.Empty(t, page4.Rows)
	assert.Equal(t, int64(25), page4.Total)
}

func TestPaginate_NormalizesBadInput(t *testing.T) {
	rows := []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
	}

	res := Paginate(rows, 0, 0)

	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.Limit)
	assert.Len(t, res.Rows, 1)
}

func TestPaginate_ClampsLimit(t *testing.T) {
	rows := make([]models.Subscription, 0, 150)
	for i := 0; i < 150; i++ {
		rows = append(rows, row(
			fmt.Sprintf("s%d", i), fmt.Sprintf("sub-%d", i),
			models.SubscriptionStatusActive, "2025-12-31", today,
		))
	}

	res := Paginate(rows, 1, 500)

	assert.Equal(t, MaxPageLimit, res.Limit, "limit не превышает верхнюю границу")
	assert.Len(t, res.Rows, MaxPageLimit)
	assert.Equal(t, int64(150), res.Total)
}

// ============================================================
// FixtureSource
// ============================================================

func TestFixtureSource_Pushdown(t *testing.T) {
	src := &FixtureSource{Rows: []models.Subscription{
		row("s1", "sub-1", models.SubscriptionStatusActive, "2025-12-31", today),
		row("s2", "sub-2", models.SubscriptionStatusActive, "2025-12-31", today),
	}}
	src.Rows[1].OrganizationID = "org-2"
	src.Rows[1].PaymentStatus = models.PaymentStatusUnpaid

	got, err := src.ListRows(context.Background(), "org-1", Filters{})
	require.NoError(t, err)
	require.Len(t, got, 1, "чужая организация не видна")
	assert.Equal(t, "s1", got[0].ID)

	got, err = src.ListRows(context.Background(), "org-2", Filters{PaymentStatus: models.PaymentStatusUnpaid})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)
}

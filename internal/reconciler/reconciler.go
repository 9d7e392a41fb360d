// Package reconciler содержит чистую логику согласования подписок:
// авто-истечение, схлопывание строк абонента до лучшей и применение
// фильтров списка. Функции не трогают БД и детерминированы, поэтому
// один и тот же конвейер обслуживает и живые данные, и фикстуры.
package reconciler

import (
	"sort"
	"strings"
	"time"

	"subtrack_backend/internal/models"
)

// ExpiringSoonWindow - горизонт для фильтра "скоро истекает".
const ExpiringSoonWindow = 7 * 24 * time.Hour

// Filters - параметры представления списка подписок.
type Filters struct {
	Status        models.SubscriptionStatus
	Search        string
	SubscriberID  string
	PaymentStatus models.PaymentStatus
	ExpiringSoon  bool
}

// CollapseExempt - схлопывание пропускается, когда запрошена история
// конкретного абонента или срез по неоплаченным строкам: в обоих режимах
// оператору нужны ВСЕ строки, а не лучшая на абонента.
func (f Filters) CollapseExempt() bool {
	return f.SubscriberID != "" || f.PaymentStatus == models.PaymentStatusUnpaid
}

// Result - результат конвейера до сериализации в ответ.
type Result struct {
	Rows  []models.Subscription
	Total int64
	Page  int
	Limit int
}

// statusRank - порядок предпочтения строк при схлопывании.
// Активная строка всегда бьет ожидающую, ожидающая - истекшую,
// истекшая - отмененную.
func statusRank(s models.SubscriptionStatus) int {
	switch s {
	case models.SubscriptionStatusActive:
		return 3
	case models.SubscriptionStatusPending:
		return 2
	case models.SubscriptionStatusExpired:
		return 1
	case models.SubscriptionStatusCancelled:
		return 0
	default:
		return -1
	}
}

// dateOnly обрезает время: все сравнения дат в конвейере календарные.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AutoExpire возвращает копию rows, где активные строки с end_date
// строго раньше today помечены как expired. Строка, истекающая сегодня,
// еще активна. Функция идемпотентна: повторный вызов ничего не меняет.
func AutoExpire(rows []models.Subscription, today time.Time) []models.Subscription {
	today = dateOnly(today)
	out := make([]models.Subscription, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].Status == models.SubscriptionStatusActive && dateOnly(out[i].EndDate).Before(today) {
			out[i].Status = models.SubscriptionStatusExpired
		}
	}
	return out
}

// better сравнивает две строки одного абонента и выбирает представителя:
// выше rank; при равном rank - более поздний end_date; затем более
// поздний created_at; затем больший id (полная детерминированность).
func better(a, b models.Subscription) models.Subscription {
	ra, rb := statusRank(a.Status), statusRank(b.Status)
	if ra != rb {
		if ra > rb {
			return a
		}
		return b
	}
	ae, be := dateOnly(a.EndDate), dateOnly(b.EndDate)
	if !ae.Equal(be) {
		if ae.After(be) {
			return a
		}
		return b
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.After(b.CreatedAt) {
			return a
		}
		return b
	}
	if a.ID > b.ID {
		return a
	}
	return b
}

// Collapse оставляет по одной строке на subscriber_id - лучшую по better.
// Порядок результата задается финальной сортировкой, здесь он не важен,
// но для детерминизма сохраняется порядок первого вхождения абонента.
func Collapse(rows []models.Subscription) []models.Subscription {
	best := make(map[string]models.Subscription, len(rows))
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		cur, seen := best[row.SubscriberID]
		if !seen {
			best[row.SubscriberID] = row
			order = append(order, row.SubscriberID)
			continue
		}
		best[row.SubscriberID] = better(cur, row)
	}

	out := make([]models.Subscription, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}

// matchesSearch - регистронезависимый поиск по имени, email и телефону
// абонента. Строки без загруженного абонента поиску не соответствуют.
func matchesSearch(row models.Subscription, search string) bool {
	if row.Subscriber == nil {
		return false
	}
	search = strings.ToLower(search)
	if strings.Contains(strings.ToLower(row.Subscriber.Name), search) {
		return true
	}
	if row.Subscriber.Email != nil && strings.Contains(strings.ToLower(*row.Subscriber.Email), search) {
		return true
	}
	if row.Subscriber.Phone != nil && strings.Contains(strings.ToLower(*row.Subscriber.Phone), search) {
		return true
	}
	return false
}

// Apply прогоняет строки через весь конвейер представления:
//
//  1. авто-истечение;
//  2. схлопывание до лучшей строки абонента (если фильтры не требуют
//     полной истории);
//  3. фильтр по статусу - ПОСЛЕ схлопывания, чтобы status=expired не
//     показывал абонентов, у которых есть более свежая активная строка;
//  4. поиск;
//  5. фильтр "скоро истекает" (активные, end_date в пределах 7 дней);
//  6. сортировка: expiring_soon - по end_date asc, иначе по created_at desc.
func Apply(rows []models.Subscription, f Filters, today time.Time) []models.Subscription {
	today = dateOnly(today)
	out := AutoExpire(rows, today)

	if !f.CollapseExempt() {
		out = Collapse(out)
	}

	if f.Status != "" {
		filtered := out[:0]
		for _, row := range out {
			if row.Status == f.Status {
				filtered = append(filtered, row)
			}
		}
		out = filtered
	}

	if f.Search != "" {
		filtered := out[:0]
		for _, row := range out {
			if matchesSearch(row, f.Search) {
				filtered = append(filtered, row)
			}
		}
		out = filtered
	}

	if f.ExpiringSoon {
		horizon := today.Add(ExpiringSoonWindow)
		filtered := out[:0]
		for _, row := range out {
			end := dateOnly(row.EndDate)
			if row.Status == models.SubscriptionStatusActive && !end.Before(today) && !end.After(horizon) {
				filtered = append(filtered, row)
			}
		}
		out = filtered
	}

	if f.ExpiringSoon {
		sort.SliceStable(out, func(i, j int) bool {
			return dateOnly(out[i].EndDate).Before(dateOnly(out[j].EndDate))
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}

// MaxPageLimit - верхняя граница размера страницы.
const MaxPageLimit = 100

// Paginate вырезает страницу. Total считается до среза.
func Paginate(rows []models.Subscription, page, limit int) Result {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	total := int64(len(rows))
	start := (page - 1) * limit
	if start > len(rows) {
		start = len(rows)
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}

	return Result{
		Rows:  rows[start:end],
		Total: total,
		Page:  page,
		Limit: limit,
	}
}

// Reconcile - полный конвейер: Apply + Paginate.
func Reconcile(rows []models.Subscription, f Filters, today time.Time, page, limit int) Result {
	return Paginate(Apply(rows, f, today), page, limit)
}

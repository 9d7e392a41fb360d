package reconciler

import (
	"context"

	"subtrack_backend/internal/models"
)

// RowSource отдает сырые строки подписок организации для конвейера.
// Источник может выполнить pushdown дешевых фильтров (subscriber_id,
// payment_status) в запрос, но схлопывание, статусный фильтр и сортировка
// всегда выполняются конвейером - семантика представления не должна
// зависеть от источника.
type RowSource interface {
	ListRows(ctx context.Context, organizationID string, f Filters) ([]models.Subscription, error)
}

// FixtureSource - источник строк в памяти. Используется в тестах и
// для локального запуска без БД; проходит через тот же конвейер,
// что и живой репозиторий.
type FixtureSource struct {
	Rows []models.Subscription
}

// ListRows повторяет pushdown живого источника над срезом в памяти.
func (s *FixtureSource) ListRows(_ context.Context, organizationID string, f Filters) ([]models.Subscription, error) {
	out := make([]models.Subscription, 0, len(s.Rows))
	for _, row := range s.Rows {
		if organizationID != "" && row.OrganizationID != organizationID {
			continue
		}
		if f.SubscriberID != "" && row.SubscriberID != f.SubscriberID {
			continue
		}
		if f.PaymentStatus != "" && row.PaymentStatus != f.PaymentStatus {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

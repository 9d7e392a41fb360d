package workers

import (
	"context"
	"time"

	"subtrack_backend/internal/logger"
	"subtrack_backend/internal/repositories"
)

// ExpiryWorker периодически персистит авто-истечение: активные подписки
// с end_date в прошлом переводятся в expired во всех организациях.
// Списочные ответы корректны и без него (конвейер согласования истекает
// строки на лету), воркер лишь приводит БД к согласованному виду.
type ExpiryWorker struct {
	subRepo  repositories.SubscriptionRepository
	interval time.Duration
}

func NewExpiryWorker(subRepo repositories.SubscriptionRepository, interval time.Duration) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpiryWorker{subRepo: subRepo, interval: interval}
}

// Start запускает фоновый обход. Останавливается по ctx.Done().
func (w *ExpiryWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ExpiryWorker) run(ctx context.Context) {
	// Первый проход сразу при старте, не дожидаясь тикера
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("expiry", "stop", nil)
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	affected, err := w.subRepo.ExpireDueAll(ctx, time.Now())
	if err != nil {
		logger.WorkerLog("expiry", "sweep", err)
		return
	}
	if affected > 0 {
		logger.Info("Expired overdue subscriptions", "worker", "expiry", "count", affected)
	}
}

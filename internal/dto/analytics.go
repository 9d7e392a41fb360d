package dto

// DashboardStats — сводка для главной страницы дашборда.
// Счетчики подписок считаются по схлопнутому представлению:
// один абонент учитывается один раз, по его лучшей строке.
type DashboardStats struct {
	TotalSubscribers    int64   `json:"total_subscribers"`
	ActiveSubscriptions int64   `json:"active_subscriptions"`
	ExpiringSoon        int64   `json:"expiring_soon"`
	UnpaidCount         int64   `json:"unpaid_count"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`

	// Ближайшие к истечению активные подписки, end_date asc, не больше 10
	ExpiringSubscriptions []SubscriptionResponse `json:"expiring_subscriptions"`
}

// MonthlyRevenuePoint — точка графика выручки по месяцам
type MonthlyRevenuePoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// PlanDistributionItem — распределение активных подписок по планам
type PlanDistributionItem struct {
	PlanID   *string `json:"plan_id"`
	PlanName string  `json:"plan_name"`
	Count    int64   `json:"count"`
}

// StatusDistributionItem — распределение подписок по статусам
type StatusDistributionItem struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// AnalyticsResponse — агрегированная аналитика за период
type AnalyticsResponse struct {
	MonthlyRevenue     []MonthlyRevenuePoint    `json:"monthly_revenue"`
	PlanDistribution   []PlanDistributionItem   `json:"plan_distribution"`
	StatusDistribution []StatusDistributionItem `json:"status_distribution"`
}

// ActivityListQuery — параметры журнала действий
type ActivityListQuery struct {
	PaginationQuery
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	Action     string `form:"action"`
}

// LogErrorRequest — запись клиентской ошибки в журнал
type LogErrorRequest struct {
	Message   string  `json:"message" validate:"required"`
	Stack     *string `json:"stack"`
	URL       *string `json:"url"`
	UserAgent *string `json:"user_agent"`
}

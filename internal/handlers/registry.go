package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	SubscriberHandler   *SubscriberHandler
	GroupHandler        *GroupHandler
	PlanHandler         *PlanHandler
	SubscriptionHandler *SubscriptionHandler
	BillingHandler      *BillingHandler
	DashboardHandler    *DashboardHandler
	ActivityHandler     *ActivityHandler
}

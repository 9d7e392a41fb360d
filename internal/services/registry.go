package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	SubscriberService   SubscriberService
	GroupService        GroupService
	PlanService         PlanService
	SubscriptionService SubscriptionService
	BillingService      BillingService
	DashboardService    DashboardService
	ActivityService     ActivityService
}

package models

type UserRole string
type SubscriptionStatus string
type PaymentStatus string
type InvoiceStatus string
type PaymentMethod string
type PeriodUnit string
type EntityType string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPending   SubscriptionStatus = "pending"

	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"

	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"

	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPaypal       PaymentMethod = "paypal"

	PeriodUnitDay   PeriodUnit = "day"
	PeriodUnitWeek  PeriodUnit = "week"
	PeriodUnitMonth PeriodUnit = "month"
	PeriodUnitYear  PeriodUnit = "year"

	EntityTypeSubscriber   EntityType = "subscriber"
	EntityTypeSubscription EntityType = "subscription"
	EntityTypePlan         EntityType = "plan"
	EntityTypeInvoice      EntityType = "invoice"
	EntityTypePayment      EntityType = "payment"
	EntityTypeGroup        EntityType = "group"
	EntityTypeUser         EntityType = "user"
	EntityTypeOrganization EntityType = "organization"
)

// ValidTransition проверяет допустимость перехода статуса подписки.
// Автоматический переход active -> expired обрабатывается отдельно (auto-expiry),
// здесь проверяются только операторские переходы.
func ValidTransition(from, to SubscriptionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case SubscriptionStatusPending:
		return to == SubscriptionStatusActive || to == SubscriptionStatusCancelled
	case SubscriptionStatusActive:
		return to == SubscriptionStatusExpired || to == SubscriptionStatusCancelled
	default:
		// expired и cancelled - терминальные статусы
		return false
	}
}

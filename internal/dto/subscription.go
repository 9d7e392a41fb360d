package dto

// SubscriptionListQuery — параметры списка подписок.
//
// Семантика фильтров:
//   - status фильтрует ПОСЛЕ схлопывания до лучшей строки абонента;
//   - subscriber_id переводит список в режим истории (все строки абонента,
//     без схлопывания);
//   - payment_status=unpaid тоже отключает схлопывание: должны быть видны
//     все неоплаченные строки, а не только лучшая;
//   - expiring_soon=true оставляет активные подписки, истекающие в
//     ближайшие 7 дней, и сортирует по end_date asc.
type SubscriptionListQuery struct {
	PaginationQuery
	Status        string `form:"status" validate:"omitempty,oneof=active expired cancelled pending"`
	Search        string `form:"search"`
	SubscriberID  string `form:"subscriber_id"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=paid unpaid partial"`
	ExpiringSoon  bool   `form:"expiring_soon"`
}

// CreateSubscriptionRequest — создание подписки.
// renewal_count клиент не передает: он вычисляется на сервере
// как количество существующих строк абонента + 1.
type CreateSubscriptionRequest struct {
	SubscriberID  string  `json:"subscriber_id" validate:"required,uuid4"`
	PlanID        *string `json:"plan_id" validate:"omitempty,uuid4"`
	Status        string  `json:"status" validate:"omitempty,oneof=active pending"`
	PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=paid unpaid partial"`
	Price         float64 `json:"price" validate:"gte=0"`
	StartDate     string  `json:"start_date" validate:"required,dateonly"`
	EndDate       string  `json:"end_date" validate:"required,dateonly"`
	Notes         *string `json:"notes"`
}

// UpdateSubscriptionRequest — частичное обновление подписки.
// Статусные переходы проверяются на уровне сервиса.
type UpdateSubscriptionRequest struct {
	Status        *string  `json:"status" validate:"omitempty,oneof=active expired cancelled pending"`
	PaymentStatus *string  `json:"payment_status" validate:"omitempty,oneof=paid unpaid partial"`
	PlanID        *string  `json:"plan_id" validate:"omitempty,uuid4"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	StartDate     *string  `json:"start_date" validate:"omitempty,dateonly"`
	EndDate       *string  `json:"end_date" validate:"omitempty,dateonly"`
	Notes         *string  `json:"notes"`
}

// SubscriptionResponse — представление подписки в ответах API
type SubscriptionResponse struct {
	ID             string  `json:"id"`
	SubscriberID   string  `json:"subscriber_id"`
	SubscriberName string  `json:"subscriber_name,omitempty"`
	PlanID         *string `json:"plan_id"`
	PlanName       *string `json:"plan_name,omitempty"`
	Status         string  `json:"status"`
	PaymentStatus  string  `json:"payment_status"`
	Price          float64 `json:"price"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	RenewalCount   int     `json:"renewal_count"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

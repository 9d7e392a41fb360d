package dto

// MarkPaidRequest — отметка подписки как оплаченной.
// Создает платеж и переводит payment_status в paid.
type MarkPaidRequest struct {
	Amount    float64 `json:"amount" validate:"gte=0"`
	Method    string  `json:"method" validate:"omitempty,oneof=cash card bank_transfer paypal"`
	Reference *string `json:"reference"`
	PaidAt    string  `json:"paid_at" validate:"omitempty,dateonly"`
	Notes     *string `json:"notes"`
}

// CreatePaymentRequest — ручная регистрация платежа
type CreatePaymentRequest struct {
	SubscriptionID *string `json:"subscription_id" validate:"omitempty,uuid4"`
	InvoiceID      *string `json:"invoice_id" validate:"omitempty,uuid4"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Method         string  `json:"method" validate:"required,oneof=cash card bank_transfer paypal"`
	Reference      *string `json:"reference"`
	PaidAt         string  `json:"paid_at" validate:"omitempty,dateonly"`
	Notes          *string `json:"notes"`
}

// CreateInvoiceRequest — выставление счета по подписке
type CreateInvoiceRequest struct {
	SubscriptionID string  `json:"subscription_id" validate:"required,uuid4"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	DueDate        string  `json:"due_date" validate:"required,dateonly"`
}

// UpdateInvoiceStatusRequest — смена статуса счета.
// paid_date принимается только вместе со статусом paid.
type UpdateInvoiceStatusRequest struct {
	Status   string `json:"status" validate:"required,oneof=draft sent paid overdue cancelled"`
	PaidDate string `json:"paid_date" validate:"omitempty,dateonly"`
}

// PaymentListQuery — параметры списка платежей
type PaymentListQuery struct {
	PaginationQuery
	SubscriptionID string `form:"subscription_id"`
	Method         string `form:"method" validate:"omitempty,oneof=cash card bank_transfer paypal"`
}

// InvoiceListQuery — параметры списка счетов
type InvoiceListQuery struct {
	PaginationQuery
	Status string `form:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
}

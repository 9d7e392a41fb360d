package dto

// CreateSubscriberRequest — создание абонента
type CreateSubscriberRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
	Notes *string `json:"notes"`
}

// UpdateSubscriberRequest — частичное обновление абонента
type UpdateSubscriberRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"is_active"`
}

// SubscriberListQuery — параметры списка абонентов
type SubscriberListQuery struct {
	PaginationQuery
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

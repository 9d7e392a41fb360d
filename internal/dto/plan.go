package dto

// CreatePlanRequest — создание тарифного плана
type CreatePlanRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Price       float64 `json:"price" validate:"gte=0"`
	PeriodUnit  string  `json:"period_unit" validate:"required,oneof=day week month year"`
	PeriodValue int     `json:"period_value" validate:"required,min=1"`
	Description *string `json:"description"`
}

// UpdatePlanRequest — частичное обновление плана
type UpdatePlanRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	PeriodUnit  *string  `json:"period_unit" validate:"omitempty,oneof=day week month year"`
	PeriodValue *int     `json:"period_value" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"is_active"`
}

// PlanListQuery — параметры списка планов
type PlanListQuery struct {
	PaginationQuery
	IsActive *bool `form:"is_active"`
}

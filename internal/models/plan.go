package models

type Plan struct {
	BaseModel
	OrganizationID string     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string     `gorm:"not null" json:"name"`
	Description    *string    `json:"description"`
	Price          float64    `gorm:"not null" json:"price"`
	PeriodValue    int        `gorm:"not null;default:1" json:"period_value"`
	PeriodUnit     PeriodUnit `gorm:"not null;default:'month'" json:"period_unit"` // day, week, month, year
	IsActive       bool       `gorm:"default:true" json:"is_active"`
}

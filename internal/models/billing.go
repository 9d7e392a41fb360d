package models

import (
	"time"
)

type Invoice struct {
	BaseModel
	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	SubscriptionID string        `gorm:"type:uuid;not null;index" json:"subscription_id"`
	InvoiceNumber  string        `gorm:"not null" json:"invoice_number"`
	Amount         float64       `gorm:"not null" json:"amount"`
	Status         InvoiceStatus `gorm:"default:'draft'" json:"status"`
	DueDate        *time.Time    `gorm:"type:date" json:"due_date"`
	PaidDate       *time.Time    `gorm:"type:date" json:"paid_date"`
	Notes          *string       `json:"notes"`

	// Relations
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
}

type Payment struct {
	BaseModel
	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	InvoiceID      *string       `gorm:"type:uuid;index" json:"invoice_id"`
	SubscriptionID *string       `gorm:"type:uuid;index" json:"subscription_id"`
	Amount         float64       `gorm:"not null" json:"amount"`
	Method         PaymentMethod `gorm:"default:'cash'" json:"method"`
	Reference      *string       `json:"reference"`
	Notes          *string       `json:"notes"`
	PaidAt         time.Time     `gorm:"default:now()" json:"paid_at"`

	// Relations
	Invoice      *Invoice      `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
}

package models

import (
	"time"
)

// Subscription - центральная сущность. Каждое продление создает НОВУЮ строку
// для того же subscriber_id; renewal_count присваивается один раз при создании
// (count существующих строк + 1) и никогда не пересчитывается.
//
// Инварианты:
//   - end_date >= start_date
//   - renewal_count N-й по времени создания строки абонента равен N
type Subscription struct {
	BaseModel
	OrganizationID string             `gorm:"type:uuid;not null;index" json:"organization_id"`
	SubscriberID   string             `gorm:"type:uuid;not null;index;uniqueIndex:idx_subscriber_renewal" json:"subscriber_id"`
	PlanID         *string            `gorm:"type:uuid;index" json:"plan_id"`
	Status         SubscriptionStatus `gorm:"default:'active';index" json:"status"`
	PaymentStatus  PaymentStatus      `gorm:"default:'unpaid';index" json:"payment_status"`
	Price          float64            `gorm:"not null" json:"price"`
	StartDate      time.Time          `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time          `gorm:"type:date;not null" json:"end_date"`
	Notes          *string            `json:"notes"`
	RenewalCount   int                `gorm:"not null;default:1;uniqueIndex:idx_subscriber_renewal" json:"renewal_count"`

	// Relations
	Subscriber *Subscriber `gorm:"foreignKey:SubscriberID" json:"subscriber,omitempty"`
	Plan       *Plan       `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

// IsRenewal - true, если строка не первая у абонента
func (s *Subscription) IsRenewal() bool {
	return s.RenewalCount > 1
}

package models

// Subscriber - клиент организации. Может иметь несколько подписок
// (историю продлений), текущий статус определяет reconciler.
type Subscriber struct {
	BaseModel
	OrganizationID string  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string  `gorm:"not null" json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Notes          *string `json:"notes"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`

	// Заполняется при листинге, в БД не хранится
	SubscriptionCount int64 `gorm:"-" json:"subscription_count,omitempty"`
}

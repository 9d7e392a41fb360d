package models

import (
	"time"
)

// Group - именованная выборка абонентов организации (теги для
// рассылок и массовых операций). Членство хранится в group_subscribers.
type Group struct {
	BaseModel
	OrganizationID string  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string  `gorm:"not null" json:"name"`
	Description    *string `json:"description"`
	Color          *string `json:"color"`

	// Заполняется при листинге, в БД не хранится
	MemberCount int64 `gorm:"-" json:"member_count"`
}

// GroupSubscriber - членство абонента в группе.
// Составной первичный ключ исключает дубли.
type GroupSubscriber struct {
	GroupID      string    `gorm:"type:uuid;primaryKey" json:"group_id"`
	SubscriberID string    `gorm:"type:uuid;primaryKey" json:"subscriber_id"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
}

func (GroupSubscriber) TableName() string {
	return "group_subscribers"
}

package models

import (
	"gorm.io/datatypes"
)

// ActivityLog - журнал действий операторов. Записывается best-effort:
// сбой записи лога никогда не ломает основную операцию.
type ActivityLog struct {
	BaseModel
	OrganizationID string         `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserID         *string        `gorm:"type:uuid;index" json:"user_id"`
	Action         string         `gorm:"not null;index" json:"action"`
	EntityType     EntityType     `gorm:"not null" json:"entity_type"`
	EntityID       *string        `gorm:"type:uuid" json:"entity_id"`
	Details        datatypes.JSON `gorm:"type:jsonb" json:"details"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type ErrorLog struct {
	BaseModel
	OrganizationID string  `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserID         *string `gorm:"type:uuid" json:"user_id"`
	Message        string  `gorm:"not null" json:"message"`
	Stack          *string `json:"stack"`
	URL            *string `json:"url"`
	UserAgent      *string `json:"user_agent"`
}

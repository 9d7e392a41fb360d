package models

type Organization struct {
	BaseModel
	Name     string `gorm:"not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

type User struct {
	BaseModel
	OrganizationID string   `gorm:"type:uuid;not null;index" json:"organization_id"`
	Email          string   `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash   string   `gorm:"not null" json:"-"`
	Role           UserRole `gorm:"default:'user'" json:"role"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

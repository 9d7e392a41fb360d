package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// UserIDKey - ключ, по которому хранится id пользователя в gin.Context
	UserIDKey = contextKey("userID")
	// OrganizationIDKey - ключ организации (границы тенанта)
	OrganizationIDKey = contextKey("organizationID")
	// RoleKey - ключ роли пользователя
	RoleKey = contextKey("role")
)

package middleware

import (
	"net/http"
	"strings"

	"subtrack_backend/internal/auth"
	"subtrack_backend/internal/logger"
	"subtrack_backend/internal/models"
	"subtrack_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Сохраняем claims в контекст Gin и в request context,
		// чтобы организация была видна и в логах.
		c.Set(string(contextkeys.UserIDKey), claims.UserID)
		c.Set(string(contextkeys.OrganizationIDKey), claims.OrganizationID)
		c.Set(string(contextkeys.RoleKey), claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		ctx = logger.WithOrganizationID(ctx, claims.OrganizationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware - middleware ограничения по ролям
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(string(contextkeys.RoleKey))
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			// Попытка преобразовать из string, если роль сохранена как строка
			roleStr, isString := roleVal.(string)
			if !isString {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
				return
			}
			role = models.UserRole(roleStr)
		}

		if role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста Gin
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(string(contextkeys.UserIDKey))
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetOrganizationID извлекает ID организации из контекста Gin
func GetOrganizationID(c *gin.Context) string {
	orgID, exists := c.Get(string(contextkeys.OrganizationIDKey))
	if !exists {
		return ""
	}

	id, ok := orgID.(string)
	if !ok {
		return ""
	}

	return id
}

package auth

import (
	"testing"

	"subtrack_backend/internal/config"
	"subtrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		BaseModel:      models.BaseModel{ID: "7f9c24e5-2f4b-4f27-9c6a-8f3b2d1e0a11"},
		OrganizationID: "a1b2c3d4-0000-0000-0000-000000000001",
		Email:          "admin@example.com",
		Role:           models.UserRoleAdmin,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60

	user := testUser()

	tokenStr, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := ParseToken(tokenStr)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID, "user_id в claims - строковый UUID пользователя")
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.OrganizationID, claims.OrganizationID)
	assert.Equal(t, models.UserRoleAdmin, claims.Role)
}

func TestParseToken_Invalid(t *testing.T) {
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60

	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Токен, подписанный другим секретом, отклоняется
	tokenStr, err := GenerateToken(testUser())
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "another-secret"
	_, err = ParseToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

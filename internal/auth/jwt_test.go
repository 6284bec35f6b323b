package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderflow-backend/internal/config"
	"orderflow-backend/internal/models"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "orderflow-backend"
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))

	user := &models.User{ID: 42, Email: "ops@orderflow.example", Role: "admin", IsActive: true}
	token, err := manager.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ops@orderflow.example", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsActive)
	assert.Equal(t, "orderflow-backend", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))
	other := NewJWTManager(testConfig("different-secret"))

	token, err := manager.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "staff"})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))

	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}

package auth

import (
	"context"
	"testing"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:          "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeHours: 48,
		BcryptCost:         4,
	}
}

// RequireTestJWTService creates a JWT service from DefaultJWTConfig and
// fails the test if that is not possible.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// GenerateAuthHeaderForTestingT creates an Authorization header value with a
// Bearer token for user, signed with DefaultJWTConfig.
func GenerateAuthHeaderForTestingT(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := RequireTestJWTService(t).GenerateToken(context.Background(), user)
	require.NoError(t, err, "Failed to generate auth header")
	return "Bearer " + token
}

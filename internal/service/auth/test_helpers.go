package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/realtonyos/go-todo/internal/config"
)

// TestSecret is a signing secret long enough for NewJWTService.
const TestSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestSecret,
		Algorithm:            jwt.SigningMethodHS256.Name,
		TokenLifetimeMinutes: 30,
		BcryptCost:           4,
	}
}

// NewTestJWTService builds an HS256 service with a fixed secret, lifetime and clock.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		method:        jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}
}

// RequireTestJWTService creates a JWT service from DefaultJWTConfig.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// GenerateAuthHeaderForTestingT returns "Bearer <token>" for email, signed
// by svc.
func GenerateAuthHeaderForTestingT(t *testing.T, svc JWTService, email string) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), email)
	require.NoError(t, err, "Failed to generate auth token")
	return "Bearer " + token
}

package auth

import (
	"context"
	"time"
)

// JWTService issues and verifies signed access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token whose subject is email.
	GenerateToken(ctx context.Context, email string) (string, error)

	// ValidateToken verifies the signature and expiry of tokenString and
	// returns its claims. It returns ErrExpiredToken or ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime is how long an issued token stays valid.
	TokenLifetime() time.Duration
}

// Claims are the verified contents of an access token.
type Claims struct {
	// Subject is the e-mail address of the user the token was issued to.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

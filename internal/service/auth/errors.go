package auth

import "errors"

// Token validation errors
var (
	// ErrInvalidToken indicates the token is malformed, signed with the wrong key
	// or algorithm, or carries unusable claims.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")
)

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtonyos/go-todo/internal/api/middleware"
	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/service"
	"github.com/realtonyos/go-todo/internal/service/auth"
	"github.com/realtonyos/go-todo/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", middleware.ErrUnauthenticated, http.StatusUnauthorized},
		{"wrapped expired token", fmt.Errorf("%w: %w", middleware.ErrUnauthenticated, auth.ErrExpiredToken), http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive", service.ErrInactiveUser, http.StatusBadRequest},
		{"duplicate email", fmt.Errorf("register: %w", store.ErrEmailExists), http.StatusBadRequest},
		{"validation", domain.NewValidationError("title", "cannot be empty", domain.ErrEmptyTitle), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"rate limited", middleware.ErrRateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("SELECT * FROM users WHERE password = 'x'")))
	assert.Equal(t, "title cannot be empty",
		GetSafeErrorMessage(domain.NewValidationError("title", "cannot be empty", domain.ErrEmptyTitle)))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(fmt.Errorf("get: %w", service.ErrTaskNotFound)))
	assert.Equal(t, "Email already registered", GetSafeErrorMessage(service.ErrEmailExists))
}

func TestSanitizeValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
		Title string `validate:"max=3"`
	}
	err := validator.New().Struct(req{Email: "nope", Title: "long"})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Invalid email: invalid email format; Invalid title: too long", SanitizeValidationError(verrs))
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))
}

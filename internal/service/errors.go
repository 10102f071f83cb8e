package service

import (
	"errors"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/store"
)

// Service errors. The API layer maps them to HTTP status codes with errors.Is.
var (
	// ErrInvalidCredentials is returned by Authenticate for an unknown e-mail
	// or a wrong password; the two cases are indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInactiveUser is returned when a deactivated account tries to act.
	ErrInactiveUser = errors.New("inactive user")

	// ErrForbidden indicates the task belongs to another user.
	ErrForbidden = errors.New("not enough permissions")

	// ErrEmailExists is returned when registering an address already in use.
	ErrEmailExists = store.ErrEmailExists

	// ErrTaskNotFound is returned when the task does not exist.
	ErrTaskNotFound = store.ErrTaskNotFound

	// ErrInvalidPagination is wrapped in a validation error for negative
	// skip or limit values.
	ErrInvalidPagination = errors.New("invalid pagination")
)

func paginationError(field string) error {
	return domain.NewValidationError(field, "must not be negative", ErrInvalidPagination)
}

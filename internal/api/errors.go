package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/realtonyos/go-todo/internal/api/middleware"
	"github.com/realtonyos/go-todo/internal/api/shared"
	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/service"
	"github.com/realtonyos/go-todo/internal/service/auth"
	"github.com/realtonyos/go-todo/internal/store"
)

// ErrBadRequest marks malformed request bodies and parameters.
var ErrBadRequest = errors.New("bad request")

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, middleware.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, middleware.ErrRateLimited):
		return http.StatusTooManyRequests

	case errors.Is(err, service.ErrInactiveUser),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, ErrBadRequest),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var (
		verr  *domain.ValidationError
		verrs validator.ValidationErrors
	)

	switch {
	case errors.Is(err, middleware.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Could not validate credentials"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect email or password"

	case errors.Is(err, service.ErrInactiveUser):
		return "Inactive user"

	case errors.Is(err, service.ErrForbidden):
		return "Not enough permissions"

	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, middleware.ErrRateLimited):
		return "Rate limit exceeded"

	case errors.As(err, &verr):
		return verr.Error()

	case errors.As(err, &verrs):
		return SanitizeValidationError(verrs)

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, ErrBadRequest):
		return "Invalid request format"

	default:
		return genericErrorMessage
	}
}

// SanitizeValidationError turns struct validation failures into a message
// naming the offending fields and nothing else.
func SanitizeValidationError(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("Invalid %s: %s",
			strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag())))
	}
	return strings.Join(parts, "; ")
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err. For
// internal errors defaultMsg, when set, replaces the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// AuthFailure is the middleware.FailureHandler for the JSON API.
func AuthFailure(w http.ResponseWriter, r *http.Request, err error) {
	if MapErrorToStatusCode(err) == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	HandleAPIError(w, r, err, "Authentication error")
}

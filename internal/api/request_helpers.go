package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/realtonyos/go-todo/internal/api/middleware"
	"github.com/realtonyos/go-todo/internal/api/shared"
	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/platform/logger"
)

// userFromRequest returns the authenticated user placed in the context by
// the auth middleware, writing a 401 if there is none.
func userFromRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		log.Warn("user not found in request context")
		AuthFailure(w, r, middleware.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}

// getPathID parses a positive integer path parameter.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// getQueryInt parses an optional integer query parameter.
func getQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", fmt.Errorf("%w: %s", ErrBadRequest, name))
	}
	return v, nil
}

// handleUserAndPathID extracts both the user and the {id} path parameter,
// writing an error response if either is missing.
func handleUserAndPathID(w http.ResponseWriter, r *http.Request, fallback *slog.Logger) (*domain.User, int64, bool) {
	log := logger.FromContextOrDefault(r.Context(), fallback)

	user, ok := userFromRequest(w, r, log)
	if !ok {
		return nil, 0, false
	}

	id, err := getPathID(r, "id")
	if err != nil {
		log.Debug("invalid path parameter", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return nil, 0, false
	}
	return user, id, true
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/realtonyos/go-todo/internal/api/shared"
	"github.com/realtonyos/go-todo/internal/platform/logger"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{logger: logger.With(slog.String("component", "user_handler"))}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := userFromRequest(w, r, log)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

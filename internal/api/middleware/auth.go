package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/realtonyos/go-todo/internal/api/shared"
	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/platform/logger"
	"github.com/realtonyos/go-todo/internal/service"
	"github.com/realtonyos/go-todo/internal/service/auth"
	"github.com/realtonyos/go-todo/internal/store"
)

// ErrUnauthenticated means the request carries no usable credentials.
var ErrUnauthenticated = errors.New("could not validate credentials")

const bearerPrefix = "Bearer "

// TokenExtractor pulls a raw token out of a request.
type TokenExtractor func(r *http.Request) (string, bool)

// FailureHandler writes the response for a request rejected by a middleware.
type FailureHandler func(w http.ResponseWriter, r *http.Request, err error)

// BearerToken reads "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}

// CookieToken reads the token from the named cookie. The value may carry a
// literal "Bearer " prefix.
func CookieToken(name string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(c.Value, bearerPrefix))
		return token, token != ""
	}
}

// Resolver turns a token into the user it was issued to. Both the API and
// the web front authenticate through the same Resolver.
type Resolver struct {
	jwt    auth.JWTService
	users  store.UserStore
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(jwt auth.JWTService, users store.UserStore, logger *slog.Logger) *Resolver {
	if jwt == nil || users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("jwt service and user store are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		jwt:    jwt,
		users:  users,
		logger: logger.With(slog.String("component", "auth_resolver")),
	}
}

// Resolve validates token and loads its subject. Invalid or expired tokens
// and unknown subjects yield ErrUnauthenticated; store failures are returned
// wrapped.
func (res *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, res.logger)

	claims, err := res.jwt.ValidateToken(ctx, token)
	if err != nil {
		log.Debug("token rejected", slog.String("reason", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		log.Debug("token rejected", slog.String("reason", "missing subject"))
		return nil, ErrUnauthenticated
	}

	user, err := res.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token subject no longer exists")
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load token subject: %w", err)
	}
	return user, nil
}

// Authenticate resolves the token found by extract and stores the user in
// the request context. Failures are passed to onFail.
func (res *Resolver) Authenticate(extract TokenExtractor, onFail FailureHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extract(r)
			if !ok {
				onFail(w, r, ErrUnauthenticated)
				return
			}

			user, err := res.Resolve(r.Context(), token)
			if err != nil {
				onFail(w, r, err)
				return
			}

			ctx := shared.WithUser(r.Context(), user)
			log := logger.FromContextOrDefault(ctx, res.logger).With(slog.Int64("user_id", user.ID))
			ctx = logger.WithLogger(ctx, log)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActive rejects requests whose authenticated user is deactivated.
// It must run after Authenticate.
func RequireActive(onFail FailureHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := shared.UserFromContext(r.Context())
			if !ok {
				onFail(w, r, ErrUnauthenticated)
				return
			}
			if !user.IsActive {
				onFail(w, r, service.ErrInactiveUser)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

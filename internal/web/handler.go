package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/realtonyos/go-todo/internal/api"
	"github.com/realtonyos/go-todo/internal/api/middleware"
	"github.com/realtonyos/go-todo/internal/platform/logger"
	"github.com/realtonyos/go-todo/internal/redact"
	"github.com/realtonyos/go-todo/internal/service"
	"github.com/realtonyos/go-todo/internal/service/auth"
)

// CookieName holds "Bearer <jwt>" for browser sessions.
const CookieName = "access_token"

// Config carries the web front's dependencies. RateLimiter is optional.
type Config struct {
	Users         service.UserService
	Tasks         service.TaskService
	JWT           auth.JWTService
	Resolver      *middleware.Resolver
	RateLimiter   *middleware.RateLimiter
	SecureCookies bool
	Logger        *slog.Logger
}

// Handler serves the web pages.
type Handler struct {
	users         service.UserService
	tasks         service.TaskService
	jwt           auth.JWTService
	resolver      *middleware.Resolver
	limiter       *middleware.RateLimiter
	secureCookies bool
	pages         *renderer
	logger        *slog.Logger
}

// New parses the embedded templates and creates a Handler.
func New(cfg Config) (*Handler, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "web"))

	pages, err := newRenderer(log)
	if err != nil {
		return nil, err
	}
	return &Handler{
		users:         cfg.Users,
		tasks:         cfg.Tasks,
		jwt:           cfg.JWT,
		resolver:      cfg.Resolver,
		limiter:       cfg.RateLimiter,
		secureCookies: cfg.SecureCookies,
		pages:         pages,
		logger:        log,
	}, nil
}

// Mount registers the web routes on r. Protected pages authenticate with
// the session cookie only.
func (h *Handler) Mount(r chi.Router) {
	r.Handle("/static/*", staticHandler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	r.Get("/register", h.registerForm)
	r.Get("/login", h.loginForm)
	r.Post("/logout", h.logout)

	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware(h.fail))
		}
		r.Post("/register", h.register)
		r.Post("/register-web", h.register)
		r.Post("/login", h.login)
		r.Post("/login-web", h.login)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.resolver.Authenticate(middleware.CookieToken(CookieName), h.fail))
		r.Use(middleware.RequireActive(h.fail))

		r.Get("/dashboard", h.dashboard)
		r.Get("/tasks/create", h.createForm)
		r.Post("/tasks/create", h.create)
		r.Get("/tasks/{id}/edit", h.editForm)
		r.Post("/tasks/{id}/edit", h.edit)
		r.Post("/tasks/{id}/delete", h.delete)
	})
}

// fail renders the error page with the status the JSON API would use.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := api.MapErrorToStatusCode(err)
	message := api.GetSafeErrorMessage(err)

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		log.Error("web request failed", slog.String("path", r.URL.Path), slog.String("error", redact.Error(err)))
	} else {
		log.Debug("web request rejected", slog.String("path", r.URL.Path), slog.Int("status", status))
	}
	if status == http.StatusUnauthorized {
		h.clearSession(w)
	}

	h.pages.render(w, r, status, pageError, pageData{Status: status, Error: message})
}

func (h *Handler) setSession(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "Bearer " + token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

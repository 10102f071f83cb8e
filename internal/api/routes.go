package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/realtonyos/go-todo/internal/api/middleware"
)

// Routes bundles the JSON API handlers and the middleware protecting them.
// RateLimiter is optional.
type Routes struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Tasks       *TaskHandler
	Resolver    *middleware.Resolver
	RateLimiter *middleware.RateLimiter
}

// Mount registers the API on r. Protected routes authenticate with a bearer
// token only.
func (rt Routes) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		if rt.RateLimiter != nil {
			r.Use(rt.RateLimiter.Middleware(AuthFailure))
		}
		r.Post("/auth/register", rt.Auth.Register)
		r.Post("/auth/login", rt.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(rt.Resolver.Authenticate(middleware.BearerToken, AuthFailure))
		r.Use(middleware.RequireActive(AuthFailure))

		r.Get("/users/me", rt.Users.Me)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", rt.Tasks.List)
			r.Post("/", rt.Tasks.Create)
			r.Get("/{id}", rt.Tasks.Get)
			r.Patch("/{id}", rt.Tasks.Update)
			r.Delete("/{id}", rt.Tasks.Delete)
		})
	})
}

// Handler returns the API as a standalone handler rooted at "/".
func (rt Routes) Handler() http.Handler {
	r := chi.NewRouter()
	rt.Mount(r)
	return r
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apimw "github.com/realtonyos/go-todo/internal/api/middleware"
)

// APIPrefix is where the JSON API is mounted.
const APIPrefix = "/api/v1"

// setupRouter creates the router with the shared middleware stack, the JSON
// API, the web pages and the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apimw.Trace(app.logger))

	r.Route(APIPrefix, app.routes().Mount)
	app.web.Mount(r)

	r.Get("/health", app.health)

	return r
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}

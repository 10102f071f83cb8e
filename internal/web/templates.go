package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/platform/logger"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names, relative to the templates directory.
const (
	pageRegister  = "auth/register.html"
	pageLogin     = "auth/login.html"
	pageDashboard = "tasks/dashboard.html"
	pageCreate    = "tasks/create.html"
	pageEdit      = "tasks/edit.html"
	pageError     = "error.html"
)

var pages = []string{pageRegister, pageLogin, pageDashboard, pageCreate, pageEdit, pageError}

// formData echoes submitted values back into a re-rendered form.
type formData struct {
	Email       string
	Title       string
	Description string
	Completed   bool
}

// pageData is the single data shape every page template receives.
type pageData struct {
	User   *domain.User
	Tasks  []domain.Task
	Task   *domain.Task
	Form   formData
	Flash  string
	Error  string
	Status int
}

// renderer holds one parsed template set per page, each combined with the
// shared layout.
type renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func newRenderer(logger *slog.Logger) (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pages)), logger: logger}
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// render executes page into a buffer first so a template error never leaves
// a half-written response.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	log := logger.FromContextOrDefault(r.Context(), rd.logger)

	t, ok := rd.pages[page]
	if !ok {
		log.Error("unknown page template", slog.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error("failed to render page", slog.String("page", page), slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("failed to write page", slog.String("error", err.Error()))
	}
}

// staticHandler serves the embedded assets under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// ALLOW-PANIC: the static directory is embedded at build time
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

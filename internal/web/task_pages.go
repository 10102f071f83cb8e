package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/realtonyos/go-todo/internal/api"
	"github.com/realtonyos/go-todo/internal/api/middleware"
	"github.com/realtonyos/go-todo/internal/api/shared"
	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/service"
)

// currentUser returns the user set by the cookie authenticator.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		h.fail(w, r, middleware.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}

func taskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// optionalText maps an empty form field to nil.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func formCompleted(r *http.Request) bool {
	switch strings.ToLower(r.PostFormValue("completed")) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", service.DefaultLimit)
	tasks, err := h.tasks.List(r.Context(), user, skip, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.pages.render(w, r, http.StatusOK, pageDashboard, pageData{User: user, Tasks: tasks})
}

func (h *Handler) createForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	h.pages.render(w, r, http.StatusOK, pageCreate, pageData{User: user})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, api.ErrBadRequest)
		return
	}

	form := formData{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}
	_, err := h.tasks.Create(r.Context(), user, service.CreateTaskInput{
		Title:       form.Title,
		Description: optionalText(form.Description),
	})
	if err != nil {
		if api.MapErrorToStatusCode(err) == http.StatusBadRequest {
			h.pages.render(w, r, http.StatusBadRequest, pageCreate, pageData{
				User:  user,
				Form:  form,
				Error: api.GetSafeErrorMessage(err),
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) editForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), user, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	form := formData{Title: task.Title, Completed: task.Completed}
	if task.Description != nil {
		form.Description = *task.Description
	}
	h.pages.render(w, r, http.StatusOK, pageEdit, pageData{User: user, Task: task, Form: form})
}

// edit saves every field of the form: an empty description clears it and
// an unchecked box marks the task open.
func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, api.ErrBadRequest)
		return
	}

	form := formData{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Completed:   formCompleted(r),
	}
	patch := domain.TaskPatch{
		Title:          &form.Title,
		Description:    optionalText(form.Description),
		SetDescription: true,
		Completed:      &form.Completed,
	}

	if _, err := h.tasks.Update(r.Context(), user, id, patch); err != nil {
		if api.MapErrorToStatusCode(err) == http.StatusBadRequest {
			h.pages.render(w, r, http.StatusBadRequest, pageEdit, pageData{
				User:  user,
				Task:  &domain.Task{ID: id},
				Form:  form,
				Error: api.GetSafeErrorMessage(err),
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), user, id); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/realtonyos/go-todo/internal/api"
	"github.com/realtonyos/go-todo/internal/service"
)

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, pageRegister, pageData{})
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	var data pageData
	if r.URL.Query().Get("registered") == "1" {
		data.Flash = "Registration complete. You can log in now."
	}
	h.pages.render(w, r, http.StatusOK, pageLogin, data)
}

// register creates the account and sends the browser to the login page.
// The welcome e-mail is scheduled by the user service.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, api.ErrBadRequest)
		return
	}
	form := formData{Email: strings.TrimSpace(r.PostFormValue("email"))}
	password := r.PostFormValue("password")

	if _, err := h.users.Register(r.Context(), form.Email, password); err != nil {
		status := api.MapErrorToStatusCode(err)
		if status >= http.StatusInternalServerError {
			h.fail(w, r, err)
			return
		}
		h.pages.render(w, r, status, pageRegister, pageData{Form: form, Error: api.GetSafeErrorMessage(err)})
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusFound)
}

// login verifies the credentials and stores the token in the session cookie.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, api.ErrBadRequest)
		return
	}
	form := formData{Email: strings.TrimSpace(r.PostFormValue("email"))}
	password := r.PostFormValue("password")

	user, err := h.users.Authenticate(r.Context(), form.Email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.pages.render(w, r, http.StatusUnauthorized, pageLogin, pageData{
				Form:  form,
				Error: api.GetSafeErrorMessage(err),
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	token, err := h.jwt.GenerateToken(r.Context(), user.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setSession(w, token, h.jwt.TokenLifetime())
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

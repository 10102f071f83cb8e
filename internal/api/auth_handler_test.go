package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/service"
)

func TestRegister(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       any
		registerFn func(ctx context.Context, email, password string) (*domain.User, error)
		wantStatus int
		wantDetail string
	}{
		{
			name: "valid registration",
			body: map[string]any{"email": "new@example.com", "password": "password123"},
			registerFn: func(_ context.Context, email, _ string) (*domain.User, error) {
				return &domain.User{ID: 9, Email: email, IsActive: true, CreatedAt: created}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			body:       map[string]any{"email": "not-an-email", "password": "password123"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid email: invalid email format",
		},
		{
			name: "short password accepted",
			body: map[string]any{"email": "new@example.com", "password": "secret1"},
			registerFn: func(_ context.Context, email, _ string) (*domain.User, error) {
				return &domain.User{ID: 9, Email: email, IsActive: true, CreatedAt: created}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "single character password accepted",
			body: map[string]any{"email": "new@example.com", "password": "x"},
			registerFn: func(_ context.Context, email, _ string) (*domain.User, error) {
				return &domain.User{ID: 9, Email: email, IsActive: true, CreatedAt: created}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing password",
			body:       map[string]any{"email": "new@example.com"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid password: required field",
		},
		{
			name:       "password beyond bcrypt limit",
			body:       map[string]any{"email": "new@example.com", "password": strings.Repeat("a", 73)},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid password: too long",
		},
		{
			name:       "missing email",
			body:       map[string]any{"password": "password123"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid email: required field",
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid request format",
		},
		{
			name: "duplicate email",
			body: map[string]any{"email": "alice@example.com", "password": "password123"},
			registerFn: func(context.Context, string, string) (*domain.User, error) {
				return nil, service.ErrEmailExists
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Email already registered",
		},
		{
			name: "service failure",
			body: map[string]any{"email": "new@example.com", "password": "password123"},
			registerFn: func(context.Context, string, string) (*domain.User, error) {
				return nil, errors.New("db exploded at /var/lib/postgres")
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Failed to create user",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.users.RegisterFn = tc.registerFn

			rr := env.do(t, http.MethodPost, "/api/v1/auth/register", nil, tc.body)

			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			if tc.wantStatus != http.StatusCreated {
				assert.Equal(t, tc.wantDetail, errorDetail(t, rr))
				return
			}

			body := decodeBody[map[string]any](t, rr)
			assert.Equal(t, float64(9), body["id"])
			assert.Equal(t, "new@example.com", body["email"])
			assert.Equal(t, true, body["is_active"])
			assert.Contains(t, body, "created_at")
			assert.NotContains(t, body, "hashed_password")
			assert.NotContains(t, body, "password")
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		authFn     func(ctx context.Context, email, password string) (*domain.User, error)
		wantStatus int
	}{
		{
			name: "valid credentials",
			form: url.Values{"username": {"alice@example.com"}, "password": {"password123"}},
			authFn: func(_ context.Context, email, password string) (*domain.User, error) {
				if email == alice.Email && password == "password123" {
					return alice, nil
				}
				return nil, service.ErrInvalidCredentials
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			form:       url.Values{"username": {"alice@example.com"}, "password": {"nope"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			form:       url.Values{"username": {"alice@example.com"}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.users.AuthenticateFn = tc.authFn

			rr := env.postForm(t, "/api/v1/auth/login", tc.form)
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())

			switch tc.wantStatus {
			case http.StatusOK:
				resp := decodeBody[TokenResponse](t, rr)
				assert.Equal(t, "bearer", resp.TokenType)

				claims, err := env.jwt.ValidateToken(context.Background(), resp.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, alice.Email, claims.Subject)
			case http.StatusUnauthorized:
				assert.Equal(t, "Incorrect email or password", errorDetail(t, rr))
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestLoginTokenAuthenticatesAPI(t *testing.T) {
	env := newTestEnv(t)
	env.users.AuthenticateFn = func(context.Context, string, string) (*domain.User, error) {
		return bob, nil
	}

	rr := env.postForm(t, "/api/v1/auth/login", url.Values{"username": {bob.Email}, "password": {"x"}})
	require.Equal(t, http.StatusOK, rr.Code)
	token := decodeBody[TokenResponse](t, rr).AccessToken

	req, err := http.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	me := serve(env, req)

	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, bob.Email, decodeBody[UserResponse](t, me).Email)
}

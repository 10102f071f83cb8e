package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/realtonyos/go-todo/internal/api/middleware"
	"github.com/realtonyos/go-todo/internal/api/shared"
	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/mocks"
	"github.com/realtonyos/go-todo/internal/service"
	"github.com/realtonyos/go-todo/internal/service/auth"
	"github.com/realtonyos/go-todo/internal/store"
)

var (
	alice   = &domain.User{ID: 1, Email: "alice@example.com", IsActive: true}
	bob     = &domain.User{ID: 2, Email: "bob@example.com", IsActive: true}
	dormant = &domain.User{ID: 3, Email: "dormant@example.com", IsActive: false}
)

type testEnv struct {
	handler http.Handler
	jwt     auth.JWTService
	users   *mocks.MockUserService
	tasks   store.TaskStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, mocks.NewMemoryTaskStore())
}

func newTestEnvWithStore(t *testing.T, tasks store.TaskStore) *testEnv {
	t.Helper()

	jwtSvc := auth.RequireTestJWTService(t)
	userStore := &mocks.MockUserStore{GetByEmailFn: mocks.UsersByEmail(alice, bob, dormant)}
	users := &mocks.MockUserService{}

	routes := Routes{
		Auth:     NewAuthHandler(users, jwtSvc, nil),
		Users:    NewUserHandler(nil),
		Tasks:    NewTaskHandler(service.NewTaskService(tasks, nil), nil),
		Resolver: middleware.NewResolver(jwtSvc, userStore, nil),
	}

	r := chi.NewRouter()
	r.Use(middleware.Trace(nil))
	r.Route("/api/v1", routes.Mount)

	return &testEnv{handler: r, jwt: jwtSvc, users: users, tasks: tasks}
}

// do sends a JSON request as user (anonymous when nil).
func (e *testEnv) do(t *testing.T, method, path string, user *domain.User, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", auth.GenerateAuthHeaderForTestingT(t, e.jwt, user.Email))
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func errorDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rr).Detail
}

package mocks

import (
	"context"
	"sync"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	mu          sync.Mutex
	CreateCalls int
	TxCalls     int
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore.Create
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

// WithTx returns the same mock; transactional calls hit the same functions.
func (m *MockUserStore) WithTx(tx store.DBTX) store.UserStore {
	m.mu.Lock()
	m.TxCalls++
	m.mu.Unlock()
	return m
}

// UsersByEmail returns a GetByEmailFn backed by a fixed set of users.
func UsersByEmail(users ...*domain.User) func(ctx context.Context, email string) (*domain.User, error) {
	byEmail := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return func(_ context.Context, email string) (*domain.User, error) {
		if u, ok := byEmail[email]; ok {
			return u, nil
		}
		return nil, store.ErrUserNotFound
	}
}

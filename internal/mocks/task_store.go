package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	ListFn    func(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Task, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Task, error)
	CreateFn  func(ctx context.Context, task *domain.Task) error
	UpdateFn  func(ctx context.Context, task *domain.Task, patch domain.TaskPatch) error
	DeleteFn  func(ctx context.Context, id int64) error

	// DefaultError is returned by methods without a function set.
	DefaultError error
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// List implements store.TaskStore.List
func (m *MockTaskStore) List(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, skip, limit)
	}
	return []domain.Task{}, m.DefaultError
}

// GetByID implements store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, store.ErrTaskNotFound
}

// Create implements store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return m.DefaultError
}

// Update implements store.TaskStore.Update
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task, patch domain.TaskPatch) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task, patch)
	}
	return m.DefaultError
}

// Delete implements store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}

// MemoryTaskStore is an in-memory store.TaskStore with the same ordering
// and not-found semantics as the PostgreSQL one.
type MemoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]domain.Task
	now    func() time.Time
}

var _ store.TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[int64]domain.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List implements store.TaskStore.List
func (s *MemoryTaskStore) List(_ context.Context, ownerID int64, skip, limit int) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	if skip >= len(owned) {
		return []domain.Task{}, nil
	}
	end := skip + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[skip:end], nil
}

// GetByID implements store.TaskStore.GetByID
func (s *MemoryTaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// Create implements store.TaskStore.Create
func (s *MemoryTaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	task.ID = s.nextID
	task.CreatedAt = s.now()
	task.UpdatedAt = task.CreatedAt
	s.tasks[task.ID] = *task
	return nil
}

// Update implements store.TaskStore.Update
func (s *MemoryTaskStore) Update(_ context.Context, task *domain.Task, patch domain.TaskPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	patch.Apply(&current)
	current.UpdatedAt = s.now()
	s.tasks[task.ID] = current
	*task = current
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *MemoryTaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

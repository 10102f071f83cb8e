package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/platform/logger"
	"github.com/realtonyos/go-todo/internal/store"
)

// Pagination bounds for task listings.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// CreateTaskInput carries the caller-supplied fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Completed   bool
}

// TaskService exposes task CRUD scoped to the acting user. Lookups of a
// single task check existence first (ErrTaskNotFound) and ownership second
// (ErrForbidden).
type TaskService interface {
	List(ctx context.Context, user *domain.User, skip, limit int) ([]domain.Task, error)
	Get(ctx context.Context, user *domain.User, id int64) (*domain.Task, error)
	Create(ctx context.Context, user *domain.User, input CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, user *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, user *domain.User, id int64) error
}

// TaskServiceImpl implements TaskService on a store.TaskStore, normally the
// cached one.
type TaskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:  tasks,
		logger: logger.With("component", "task_service"),
	}
}

// List returns a page of the user's tasks. Limits above MaxLimit are capped.
func (s *TaskServiceImpl) List(ctx context.Context, user *domain.User, skip, limit int) ([]domain.Task, error) {
	if skip < 0 {
		return nil, paginationError("skip")
	}
	if limit < 0 {
		return nil, paginationError("limit")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	tasks, err := s.tasks.List(ctx, user.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the task if it exists and belongs to user.
func (s *TaskServiceImpl) Get(ctx context.Context, user *domain.User, id int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if !t.OwnedBy(user.ID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task access denied",
			"task_id", id,
			"user_id", user.ID)
		return nil, ErrForbidden
	}
	return t, nil
}

// Create stores a new task owned by user.
func (s *TaskServiceImpl) Create(ctx context.Context, user *domain.User, input CreateTaskInput) (*domain.Task, error) {
	t, err := domain.NewTask(user.ID, input.Title, input.Description, input.Completed)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// Update applies patch to one of the user's tasks. An empty patch returns the
// task unchanged without writing.
func (s *TaskServiceImpl) Update(ctx context.Context, user *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return t, nil
	}

	if err := s.tasks.Update(ctx, t, patch); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Delete removes one of the user's tasks.
func (s *TaskServiceImpl) Delete(ctx context.Context, user *domain.User, id int64) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

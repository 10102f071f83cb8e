package store

import (
	"context"

	"github.com/realtonyos/go-todo/internal/domain"
)

// TaskStore defines the interface for task persistence. Ownership is not
// checked here; callers must compare OwnerID themselves.
type TaskStore interface {
	// List returns a page of ownerID's tasks in storage order.
	List(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Task, error)

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Create inserts task and fills in its ID and timestamps.
	Create(ctx context.Context, task *domain.Task) error

	// Update applies patch to the stored task and refreshes task with the
	// committed row. Returns ErrTaskNotFound if the task is gone.
	Update(ctx context.Context, task *domain.Task, patch domain.TaskPatch) error

	// Delete removes the task with the given ID. Deleting a missing task
	// is a no-op.
	Delete(ctx context.Context, id int64) error
}

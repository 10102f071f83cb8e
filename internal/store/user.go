package store

import (
	"context"

	"github.com/realtonyos/go-todo/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create inserts user and fills in its ID and timestamps.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by exact email match.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx DBTX) UserStore
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/platform/logger"
	"github.com/realtonyos/go-todo/internal/service/auth"
	"github.com/realtonyos/go-todo/internal/store"
	"github.com/realtonyos/go-todo/internal/task"
)

// UserService provides registration and credential checks.
type UserService interface {
	// Register creates an active account and schedules the welcome e-mail.
	// Returns ErrEmailExists if the address is taken.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user owning email if password matches,
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	db        store.TxBeginner
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	jobs      task.Producer
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService. jobs may be nil, in which case
// no welcome e-mail is scheduled.
func NewUserService(
	userStore store.UserStore,
	db store.TxBeginner,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jobs task.Producer,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		hasher:    hasher,
		verifier:  verifier,
		jobs:      jobs,
		logger:    logger.With("component", "user_service"),
	}
}

// Register implements UserService. The insert runs in a transaction; a
// unique violation there is the authoritative duplicate signal, the lookup
// before it only avoids hashing for an obvious duplicate.
func (s *UserServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.userStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		log.Debug("registration with existing email rejected")
		return nil, ErrEmailExists
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error("failed to look up email before registration", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user, err := domain.NewUser(email, hashed)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration lost a race on the email constraint")
			return nil, ErrEmailExists
		}
		log.Error("failed to save user", "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	s.scheduleWelcome(ctx, user)
	return user, nil
}

// scheduleWelcome enqueues the welcome job. A failure is logged and never
// affects the registration outcome.
func (s *UserServiceImpl) scheduleWelcome(ctx context.Context, user *domain.User) {
	if s.jobs == nil {
		return
	}
	err := s.jobs.Enqueue(ctx, task.JobWelcomeEmail, task.WelcomeEmailPayload{Email: user.Email})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to schedule welcome email",
			"user_id", user.ID,
			"error", err)
	}
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

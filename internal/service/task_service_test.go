package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/mocks"
	"github.com/realtonyos/go-todo/internal/service"
	"github.com/realtonyos/go-todo/internal/store"
)

var (
	owner    = &domain.User{ID: 1, Email: "owner@example.com", IsActive: true}
	stranger = &domain.User{ID: 2, Email: "stranger@example.com", IsActive: true}
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func seededTaskService(t *testing.T) (*service.TaskServiceImpl, *mocks.MemoryTaskStore, *domain.Task) {
	t.Helper()
	tasks := mocks.NewMemoryTaskStore()
	svc := service.NewTaskService(tasks, nil)

	created, err := svc.Create(context.Background(), owner, service.CreateTaskInput{
		Title:       "Buy milk",
		Description: strPtr("two litres"),
	})
	require.NoError(t, err)
	return svc, tasks, created
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()
	svc, _, created := seededTaskService(t)

	assert.Positive(t, created.ID)
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)
	assert.False(t, created.CreatedAt.IsZero())

	_, err := svc.Create(context.Background(), owner, service.CreateTaskInput{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestTaskServiceGetOwnership(t *testing.T) {
	t.Parallel()
	svc, _, created := seededTaskService(t)
	ctx := context.Background()

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.Get(ctx, stranger, 999)
	assert.ErrorIs(t, err, service.ErrTaskNotFound, "existence is checked before ownership")
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()
	svc, _, _ := seededTaskService(t)
	ctx := context.Background()

	for _, title := range []string{"second", "third"} {
		_, err := svc.Create(ctx, owner, service.CreateTaskInput{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, stranger, service.CreateTaskInput{Title: "not yours"})
	require.NoError(t, err)

	all, err := svc.List(ctx, owner, 0, service.DefaultLimit)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Buy milk", "second", "third"}, []string{all[0].Title, all[1].Title, all[2].Title})

	page, err := svc.List(ctx, owner, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Title)

	empty, err := svc.List(ctx, owner, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTaskServiceListPagination(t *testing.T) {
	t.Parallel()

	var gotLimit int
	tasks := &mocks.MockTaskStore{
		ListFn: func(_ context.Context, _ int64, _, limit int) ([]domain.Task, error) {
			gotLimit = limit
			return []domain.Task{}, nil
		},
	}
	svc := service.NewTaskService(tasks, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, owner, -1, 10)
	assert.ErrorIs(t, err, service.ErrInvalidPagination)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.List(ctx, owner, 0, -1)
	assert.ErrorIs(t, err, service.ErrInvalidPagination)

	_, err = svc.List(ctx, owner, 0, 5000)
	require.NoError(t, err)
	assert.Equal(t, service.MaxLimit, gotLimit)
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()
	svc, _, created := seededTaskService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, owner, created.ID, domain.TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title, "absent fields are unchanged")
	require.NotNil(t, updated.Description)
	assert.Equal(t, "two litres", *updated.Description)

	cleared, err := svc.Update(ctx, owner, created.ID, domain.TaskPatch{SetDescription: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)

	_, err = svc.Update(ctx, stranger, created.ID, domain.TaskPatch{Title: strPtr("mine now")})
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.Update(ctx, owner, 999, domain.TaskPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.Update(ctx, owner, created.ID, domain.TaskPatch{Title: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskServiceUpdateEmptyPatchSkipsWrite(t *testing.T) {
	t.Parallel()

	existing := &domain.Task{ID: 3, Title: "same", OwnerID: owner.ID}
	tasks := &mocks.MockTaskStore{
		GetByIDFn: func(context.Context, int64) (*domain.Task, error) { return existing, nil },
		UpdateFn: func(context.Context, *domain.Task, domain.TaskPatch) error {
			t.Fatal("empty patch must not write")
			return nil
		},
	}

	got, err := service.NewTaskService(tasks, nil).Update(context.Background(), owner, 3, domain.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()
	svc, tasks, created := seededTaskService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, stranger, created.ID), service.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	_, err := tasks.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, owner, created.ID), service.ErrTaskNotFound)
}

func TestTaskServiceStoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	svc := service.NewTaskService(&mocks.MockTaskStore{DefaultError: boom}, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, owner, 0, 10)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Get(ctx, owner, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.Create(ctx, owner, service.CreateTaskInput{Title: "x"})
	assert.ErrorIs(t, err, boom)
}

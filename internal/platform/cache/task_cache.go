package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/platform/logger"
	"github.com/realtonyos/go-todo/internal/store"
)

// DefaultTaskListTTL is how long a cached listing page lives.
const DefaultTaskListTTL = 300 * time.Second

const scanBatch = 100

// TaskCache decorates a store.TaskStore with a write-through cache of
// listing pages. Single-task reads are not cached.
type TaskCache struct {
	base   store.TaskStore
	redis  redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskCache)(nil)

// NewTaskCache wraps base. A non-positive ttl falls back to DefaultTaskListTTL.
func NewTaskCache(base store.TaskStore, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *TaskCache {
	if base == nil {
		panic("cache.NewTaskCache: base store is nil")
	}
	if ttl <= 0 {
		ttl = DefaultTaskListTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskCache{
		base:   base,
		redis:  client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "task_cache")),
	}
}

// TaskListKey is the cache key of one listing page.
func TaskListKey(ownerID int64, skip, limit int) string {
	return fmt.Sprintf("tasks:%d:%d:%d", ownerID, skip, limit)
}

// ownerPattern matches every cached page of ownerID.
func ownerPattern(ownerID int64) string {
	return fmt.Sprintf("tasks:%d:*", ownerID)
}

// List serves a page from Redis when present, otherwise reads the base
// store and caches the result.
func (c *TaskCache) List(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Task, error) {
	key := TaskListKey(ownerID, skip, limit)

	if tasks, ok := c.load(ctx, key); ok {
		return tasks, nil
	}

	tasks, err := c.base.List(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, err
	}

	c.save(ctx, key, tasks)
	return tasks, nil
}

// GetByID reads straight from the base store.
func (c *TaskCache) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return c.base.GetByID(ctx, id)
}

// Create stores task and invalidates the owner's pages.
func (c *TaskCache) Create(ctx context.Context, task *domain.Task) error {
	if err := c.base.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

// Update patches task and invalidates the owner's pages.
func (c *TaskCache) Update(ctx context.Context, task *domain.Task, patch domain.TaskPatch) error {
	if err := c.base.Update(ctx, task, patch); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

// Delete removes the task. The owner is looked up first so their pages can
// be invalidated; a missing task stays a no-op.
func (c *TaskCache) Delete(ctx context.Context, id int64) error {
	task, err := c.base.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return c.base.Delete(ctx, id)
		}
		return err
	}

	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

func (c *TaskCache) load(ctx context.Context, key string) ([]domain.Task, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContextOrDefault(ctx, c.logger).Warn("cache read failed, using store",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		logger.FromContextOrDefault(ctx, c.logger).Warn("dropping undecodable cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return tasks, true
}

func (c *TaskCache) save(ctx context.Context, key string, tasks []domain.Task) {
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.FromContextOrDefault(ctx, c.logger).Warn("cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// invalidate deletes every cached page of ownerID. Failures are logged only;
// stale pages expire with their TTL.
func (c *TaskCache) invalidate(ctx context.Context, ownerID int64) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var keys []string
	iter := c.redis.Scan(ctx, 0, ownerPattern(ownerID), scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn("cache invalidation scan failed",
			slog.Int64("owner_id", ownerID),
			slog.String("error", err.Error()))
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Warn("cache invalidation failed",
			slog.Int64("owner_id", ownerID),
			slog.String("error", err.Error()))
		return
	}
	log.Debug("task pages invalidated",
		slog.Int64("owner_id", ownerID),
		slog.Int("keys", len(keys)))
}

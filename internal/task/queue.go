package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/realtonyos/go-todo/internal/platform/logger"
)

// DefaultQueueKey is the Redis list jobs are pushed onto.
const DefaultQueueKey = "todo:jobs"

// Common errors returned by the Queue
var (
	// ErrNoJob is returned by Pop when the wait timed out.
	ErrNoJob = errors.New("no job available")

	// ErrMalformedJob is returned by Pop when a queue entry cannot be decoded.
	ErrMalformedJob = errors.New("malformed job")
)

// Producer submits jobs for background execution.
type Producer interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

// Queue is a FIFO job queue on a Redis list: LPUSH to add, BRPOP to take.
type Queue struct {
	client redis.Cmdable
	key    string
	logger *slog.Logger
}

var _ Producer = (*Queue)(nil)

// NewQueue creates a queue on the list named key.
func NewQueue(client redis.Cmdable, key string, logger *slog.Logger) *Queue {
	if key == "" {
		key = DefaultQueueKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		client: client,
		key:    key,
		logger: logger.With(slog.String("component", "job_queue")),
	}
}

// Enqueue implements Producer.
func (q *Queue) Enqueue(ctx context.Context, name string, payload any) error {
	job, err := NewJob(name, payload)
	if err != nil {
		return err
	}
	return q.Push(ctx, job)
}

// Push adds an already-built job, for example a retry.
func (q *Queue) Push(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("push job %s: %w", job.Name, err)
	}

	logger.FromContextOrDefault(ctx, q.logger).Debug("job enqueued",
		"job_id", job.ID,
		"job_name", job.Name,
		"attempts", job.Attempts)
	return nil
}

// Pop waits up to timeout for the oldest job. It returns ErrNoJob when
// nothing arrived in time.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (Job, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, ErrNoJob
		}
		return Job{}, fmt.Errorf("pop job: %w", err)
	}
	if len(res) != 2 {
		return Job{}, fmt.Errorf("%w: unexpected reply of %d elements", ErrMalformedJob, len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return Job{}, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	return job, nil
}

// Len reports how many jobs are waiting.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

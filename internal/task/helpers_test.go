package task

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// memoryQueue is an in-process jobQueue for runner tests.
type memoryQueue struct {
	jobs chan Job

	mu     sync.Mutex
	pushes []Job
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{jobs: make(chan Job, 100)}
}

func (q *memoryQueue) Push(_ context.Context, job Job) error {
	q.mu.Lock()
	q.pushes = append(q.pushes, job)
	q.mu.Unlock()
	q.jobs <- job
	return nil
}

func (q *memoryQueue) Pop(ctx context.Context, timeout time.Duration) (Job, error) {
	select {
	case job := <-q.jobs:
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case <-time.After(timeout):
		return Job{}, ErrNoJob
	}
}

func (q *memoryQueue) pushed() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Job(nil), q.pushes...)
}

// recordingProducer captures Enqueue calls.
type recordingProducer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *recordingProducer) Enqueue(_ context.Context, name string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, name)
	return p.err
}

func (p *recordingProducer) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

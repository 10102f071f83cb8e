package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrBufferClosed is returned by Put after Close.
var ErrBufferClosed = errors.New("job buffer is closed")

// JobSource gives workers read access to pending jobs.
type JobSource interface {
	GetChannel() <-chan Job
}

// jobBuffer is the bounded hand-off between the queue poller and the worker
// pool.
type jobBuffer struct {
	jobs   chan Job
	mu     sync.RWMutex
	closed bool
	logger *slog.Logger
}

func newJobBuffer(size int, logger *slog.Logger) *jobBuffer {
	if size <= 0 {
		size = 1
	}
	return &jobBuffer{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Put blocks until the job is buffered or ctx is done.
func (b *jobBuffer) Put(ctx context.Context, job Job) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBufferClosed
	}

	select {
	case b.jobs <- job:
		b.logger.Debug("job buffered",
			"job_id", job.ID,
			"job_name", job.Name,
			"buffer_len", len(b.jobs),
			"buffer_cap", cap(b.jobs))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops further Puts; workers drain what is left.
func (b *jobBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.jobs)
		b.logger.Debug("job buffer closed")
	}
}

func (b *jobBuffer) GetChannel() <-chan Job {
	return b.jobs
}

package task

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// WorkerCount determines how many jobs run concurrently
	WorkerCount int

	// MaxAttempts is how many times a job is tried before it is dropped
	MaxAttempts int

	// BufferSize bounds the jobs popped from Redis but not yet started
	BufferSize int

	// PollTimeout is how long each BRPOP waits
	PollTimeout time.Duration

	// JobTimeout bounds a single handler call
	JobTimeout time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		MaxAttempts: 3,
		BufferSize:  10,
		PollTimeout: time.Second,
		JobTimeout:  time.Minute,
	}
}

const (
	requeueTimeout = 5 * time.Second
	pollBackoff    = time.Second
)

// jobQueue is the part of Queue the runner needs.
type jobQueue interface {
	Push(ctx context.Context, job Job) error
	Pop(ctx context.Context, timeout time.Duration) (Job, error)
}

// Runner pulls jobs off the queue and runs them on a worker pool.
type Runner struct {
	queue  jobQueue
	buffer *jobBuffer
	pool   *WorkerPool
	config RunnerConfig
	logger *slog.Logger
}

// NewRunner creates a runner that dispatches jobs through handler.
func NewRunner(queue jobQueue, handler Handler, config RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "job_runner"))

	defaults := DefaultRunnerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = defaults.PollTimeout
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}

	buffer := newJobBuffer(config.BufferSize, logger)
	pool := NewWorkerPool(buffer, handler, WorkerPoolConfig{
		WorkerCount: config.WorkerCount,
		JobTimeout:  config.JobTimeout,
	}, logger)

	r := &Runner{
		queue:  queue,
		buffer: buffer,
		pool:   pool,
		config: config,
		logger: logger,
	}
	pool.SetErrorHandler(r.retry)
	return r
}

// Run polls the queue until ctx is cancelled, then lets the workers finish
// the jobs already taken and returns.
func (r *Runner) Run(ctx context.Context) error {
	r.pool.Start()
	r.logger.Info("job runner started",
		"max_attempts", r.config.MaxAttempts,
		"poll_timeout", r.config.PollTimeout)

	r.poll(ctx)

	r.buffer.Close()
	r.pool.Wait()
	r.logger.Info("job runner stopped")
	return nil
}

func (r *Runner) poll(ctx context.Context) {
	for ctx.Err() == nil {
		job, err := r.queue.Pop(ctx, r.config.PollTimeout)
		switch {
		case err == nil:
		case errors.Is(err, ErrNoJob):
			continue
		case errors.Is(err, ErrMalformedJob):
			r.logger.Error("dropping malformed job", "error", err)
			continue
		case ctx.Err() != nil:
			return
		default:
			r.logger.Error("failed to pop job", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollBackoff):
			}
			continue
		}

		if err := r.buffer.Put(ctx, job); err != nil {
			// Shutting down with a job in hand: give it back to the queue.
			r.requeue(job)
			return
		}
	}
}

// retry is the pool's error handler.
func (r *Runner) retry(job Job, err error) {
	log := r.logger.With("job_id", job.ID, "job_name", job.Name)

	job.Attempts++
	if IsPermanent(err) {
		log.Error("job failed permanently, dropping", "error", err, "attempts", job.Attempts)
		return
	}
	if job.Attempts >= r.config.MaxAttempts {
		log.Error("job exhausted its attempts, dropping", "error", err, "attempts", job.Attempts)
		return
	}

	log.Warn("job failed, re-queueing", "error", err, "attempts", job.Attempts)
	r.requeue(job)
}

func (r *Runner) requeue(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), requeueTimeout)
	defer cancel()
	if err := r.queue.Push(ctx, job); err != nil {
		r.logger.Error("failed to re-queue job",
			"job_id", job.ID,
			"job_name", job.Name,
			"error", err)
	}
}

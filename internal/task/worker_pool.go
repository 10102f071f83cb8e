package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WorkerPool manages a pool of worker goroutines that run jobs from a
// JobSource. Workers exit when the source channel is closed and drained, or
// when Stop is called.
type WorkerPool struct {
	// source provides read access to the jobs to be processed
	source JobSource

	// handler executes each job
	handler Handler

	// workerCount is the number of concurrent workers to start
	workerCount int

	// jobTimeout bounds a single handler call
	jobTimeout time.Duration

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is used for cancellation and shutdown signaling
	ctx    context.Context
	cancel context.CancelFunc

	logger *slog.Logger

	// errorHandler is called when a job fails. If nil, errors are only logged.
	errorHandler func(job Job, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int

	// JobTimeout bounds each handler call. Zero means one minute.
	JobTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
		JobTimeout:  time.Minute,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(source JobSource, handler Handler, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}
	jobTimeout := config.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		source:      source,
		handler:     handler,
		workerCount: workerCount,
		jobTimeout:  jobTimeout,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// SetErrorHandler sets the callback for failed jobs. Call before Start.
func (p *WorkerPool) SetErrorHandler(handler func(job Job, err error)) {
	p.errorHandler = handler
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "worker_count", p.workerCount)
}

// Wait blocks until every worker has exited.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Stop cancels in-flight jobs and waits for the workers to exit.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)
	jobs := p.source.GetChannel()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-jobs:
			if !ok {
				p.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}
			p.processJob(job, id)
		}
	}
}

func (p *WorkerPool) processJob(job Job, workerID int) {
	log := p.logger.With(
		"job_id", job.ID,
		"job_name", job.Name,
		"attempt", job.Attempts+1,
		"worker_id", workerID,
	)

	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout)
	defer cancel()

	log.Info("processing job")

	result, err := p.run(ctx, job)
	if err != nil {
		log.Error("job execution failed", "error", err)
		if p.errorHandler != nil {
			p.errorHandler(job, err)
		}
		return
	}

	log.Info("job completed", "result", result)
}

// run calls the handler and turns a panic into a permanent error.
func (p *WorkerPool) run(ctx context.Context, job Job) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(panicError{value: r})
		}
	}()
	return p.handler.Handle(ctx, job)
}

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return "job handler panicked: " + stringify(e.value)
}

func stringify(v any) string {
	switch x := v.(type) {
	case error:
		return x.Error()
	case string:
		return x
	default:
		return "non-error panic value"
	}
}

package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/realtonyos/go-todo/internal/platform/logger"
)

const defaultEnqueueTimeout = 5 * time.Second

// AsyncProducer hands jobs to another Producer on a background goroutine so
// the caller never waits on the queue. Failures are logged, never returned.
type AsyncProducer struct {
	next    Producer
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

var _ Producer = (*AsyncProducer)(nil)

// NewAsyncProducer wraps next. A non-positive timeout uses 5s.
func NewAsyncProducer(next Producer, timeout time.Duration, logger *slog.Logger) *AsyncProducer {
	if timeout <= 0 {
		timeout = defaultEnqueueTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncProducer{
		next:    next,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "async_producer")),
	}
}

// Enqueue starts the hand-off and returns nil immediately. The request
// context's values are kept but its cancellation is not.
func (p *AsyncProducer) Enqueue(ctx context.Context, name string, payload any) error {
	log := logger.FromContextOrDefault(ctx, p.logger)
	detached := context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()

		if err := p.next.Enqueue(ctx, name, payload); err != nil {
			log.Error("failed to enqueue background job",
				"job_name", name,
				"error", err)
		}
	}()
	return nil
}

// Wait blocks until every started hand-off has finished.
func (p *AsyncProducer) Wait() {
	p.wg.Wait()
}

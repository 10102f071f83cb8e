package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownJob is returned when no handler is registered for a job name.
var ErrUnknownJob = errors.New("no handler registered for job")

// Handler executes one job and returns a short status line.
type Handler interface {
	Handle(ctx context.Context, job Job) (string, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) (string, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, job Job) (string, error) {
	return f(ctx, job)
}

// Registry maps job names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds h to name, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

var _ Handler = (*Registry)(nil)

// Handle runs the handler registered for job.Name.
func (r *Registry) Handle(ctx context.Context, job Job) (string, error) {
	r.mu.RLock()
	h, ok := r.handlers[job.Name]
	r.mu.RUnlock()
	if !ok {
		return "", Permanent(fmt.Errorf("%w: %s", ErrUnknownJob, job.Name))
	}
	return h.Handle(ctx, job)
}

package mocks

import (
	"context"
	"sync"
)

// EnqueuedJob records one Enqueue call.
type EnqueuedJob struct {
	Name    string
	Payload any
}

// MockProducer implements task.Producer and records every call.
type MockProducer struct {
	Err error

	mu   sync.Mutex
	jobs []EnqueuedJob
}

// Enqueue implements task.Producer
func (m *MockProducer) Enqueue(_ context.Context, name string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, EnqueuedJob{Name: name, Payload: payload})
	return m.Err
}

// Jobs returns the recorded calls.
func (m *MockProducer) Jobs() []EnqueuedJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EnqueuedJob(nil), m.jobs...)
}

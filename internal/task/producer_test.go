package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingProducer struct {
	release chan struct{}
	done    chan struct{}
}

func (p *blockingProducer) Enqueue(ctx context.Context, _ string, _ any) error {
	defer close(p.done)
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestAsyncProducerDoesNotWait(t *testing.T) {
	next := &blockingProducer{release: make(chan struct{}), done: make(chan struct{})}
	p := NewAsyncProducer(next, time.Minute, setupTestLogger())

	start := time.Now()
	require.NoError(t, p.Enqueue(context.Background(), JobWelcomeEmail, nil))
	assert.Less(t, time.Since(start), time.Second)

	close(next.release)
	p.Wait()
	<-next.done
}

func TestAsyncProducerSwallowsErrors(t *testing.T) {
	next := &recordingProducer{err: errors.New("redis down")}
	p := NewAsyncProducer(next, 0, setupTestLogger())

	assert.NoError(t, p.Enqueue(context.Background(), JobWelcomeEmail, nil))
	p.Wait()
	assert.Equal(t, []string{JobWelcomeEmail}, next.names())
}

func TestAsyncProducerOutlivesRequestContext(t *testing.T) {
	next := &recordingProducer{}
	p := NewAsyncProducer(next, time.Second, setupTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Enqueue(ctx, JobWelcomeEmail, nil))
	p.Wait()
	assert.Equal(t, []string{JobWelcomeEmail}, next.names())
}

func TestAsyncProducerTimesOut(t *testing.T) {
	next := &blockingProducer{release: make(chan struct{}), done: make(chan struct{})}
	p := NewAsyncProducer(next, 10*time.Millisecond, setupTestLogger())

	require.NoError(t, p.Enqueue(context.Background(), JobWelcomeEmail, nil))
	p.Wait()
	<-next.done
}

func TestAsyncProducerWithRedisQueue(t *testing.T) {
	_, client := newTestRedis(t)
	q := NewQueue(client, "", nil)
	p := NewAsyncProducer(q, time.Second, nil)

	require.NoError(t, p.Enqueue(context.Background(), JobWelcomeEmail, WelcomeEmailPayload{Email: "x@example.com"}))
	p.Wait()

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

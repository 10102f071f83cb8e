package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtonyos/go-todo/internal/platform/mail"
)

// senderFunc adapts a function to mail.Sender.
type senderFunc func(ctx context.Context, to string) error

func (f senderFunc) Send(ctx context.Context, msg mail.Message) error {
	return f(ctx, msg.To)
}

func welcomeJob(t *testing.T, email string) Job {
	t.Helper()
	job, err := NewJob(JobWelcomeEmail, WelcomeEmailPayload{Email: email})
	require.NoError(t, err)
	return job
}

func TestWelcomeEmailHandler(t *testing.T) {
	var got []string
	h := NewWelcomeEmailHandler(senderFunc(func(_ context.Context, to string) error {
		got = append(got, to)
		return nil
	}), setupTestLogger())

	result, err := h.Handle(context.Background(), welcomeJob(t, "erin@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Email sent to erin@example.com", result)
	assert.Equal(t, []string{"erin@example.com"}, got)
}

func TestWelcomeEmailHandlerWithLogSender(t *testing.T) {
	h := NewWelcomeEmailHandler(mail.NewLogSender(setupTestLogger()), setupTestLogger())

	result, err := h.Handle(context.Background(), welcomeJob(t, "frank@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Email sent to frank@example.com", result)
}

func TestWelcomeEmailHandlerErrors(t *testing.T) {
	failing := senderFunc(func(context.Context, string) error { return errors.New("relay down") })
	h := NewWelcomeEmailHandler(failing, setupTestLogger())

	tests := []struct {
		name      string
		job       Job
		permanent bool
	}{
		{name: "send failure is retryable", job: welcomeJob(t, "gina@example.com"), permanent: false},
		{name: "missing email", job: Job{Name: JobWelcomeEmail, Payload: json.RawMessage(`{}`)}, permanent: true},
		{name: "undecodable payload", job: Job{Name: JobWelcomeEmail, Payload: json.RawMessage(`[1,2]`)}, permanent: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tc.job)
			require.Error(t, err)
			assert.Equal(t, tc.permanent, IsPermanent(err))
		})
	}
}

package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/realtonyos/go-todo/internal/platform/mail"
)

// WelcomeEmailHandler sends the welcome e-mail for JobWelcomeEmail.
type WelcomeEmailHandler struct {
	sender mail.Sender
	logger *slog.Logger
}

var _ Handler = (*WelcomeEmailHandler)(nil)

// NewWelcomeEmailHandler creates the handler.
func NewWelcomeEmailHandler(sender mail.Sender, logger *slog.Logger) *WelcomeEmailHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WelcomeEmailHandler{
		sender: sender,
		logger: logger.With(slog.String("component", "welcome_email")),
	}
}

// Handle renders and sends the message. It returns "Email sent to <email>".
func (h *WelcomeEmailHandler) Handle(ctx context.Context, job Job) (string, error) {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", Permanent(fmt.Errorf("decode welcome payload: %w", err))
	}
	if payload.Email == "" {
		return "", Permanent(errors.New("welcome payload has no email"))
	}

	h.logger.Info("sending welcome email", "job_id", job.ID)

	msg, err := mail.WelcomeMessage(payload.Email)
	if err != nil {
		return "", Permanent(err)
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("send welcome email: %w", err)
	}
	return fmt.Sprintf("Email sent to %s", payload.Email), nil
}

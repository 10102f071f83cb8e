package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/go-mail/mail/v2"

	"github.com/realtonyos/go-todo/internal/config"
	"github.com/realtonyos/go-todo/internal/platform/logger"
)

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("message has no recipient")

const (
	sendAttempts = 3
	dialTimeout  = 10 * time.Second
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer  dialer
	from    string
	retryIn time.Duration
	logger  *slog.Logger
}

// NewSMTPSender creates a sender for the relay described by cfg.
func NewSMTPSender(cfg config.SMTPConfig, logger *slog.Logger) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = dialTimeout
	return newSMTPSender(d, cfg.Sender, time.Second, logger)
}

func newSMTPSender(d dialer, from string, retryIn time.Duration, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		dialer:  d,
		from:    from,
		retryIn: retryIn,
		logger:  logger.With(slog.String("component", "smtp_sender")),
	}
}

// Send delivers msg, trying up to three times.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	m := gomail.NewMessage()
	m.SetHeader("To", msg.To)
	m.SetHeader("From", s.from)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	var err error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if err = s.dialer.DialAndSend(m); err == nil {
			log.Info("email sent", slog.String("subject", msg.Subject))
			return nil
		}
		log.Warn("email delivery attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if attempt == sendAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryIn):
		}
	}
	return fmt.Errorf("send email after %d attempts: %w", sendAttempts, err)
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("email not delivered, no smtp relay configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))
	return nil
}

// NewSender returns an SMTPSender when cfg names a relay and a LogSender
// otherwise.
func NewSender(cfg config.SMTPConfig, logger *slog.Logger) Sender {
	if cfg.Enabled() {
		return NewSMTPSender(cfg, logger)
	}
	return NewLogSender(logger)
}

package notifier

import (
	"context"
	"io"
	"log/slog"
)

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer composes the admin notification and hands it to a Sender.
type Mailer struct {
	sender     Sender
	adminEmail string
	baseURL    string
	logger     *slog.Logger
}

func NewMailer(sender Sender, adminEmail, baseURL string, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Mailer{
		sender:     sender,
		adminEmail: adminEmail,
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (m *Mailer) NotifySubmitted(ctx context.Context, n Notification) error {
	msg, err := Compose(n, m.adminEmail, m.baseURL)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return err
	}
	m.logger.Info("booking notification sent",
		"component", "notifier",
		"booking_id", n.Summary.PrimaryID,
		"to", m.adminEmail,
	)
	return nil
}

// LogSender writes messages to the log instead of sending them. It is used
// when no SMTP credentials are configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Warn("smtp not configured, logging email instead",
		"component", "notifier",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.HTML,
	)
	return nil
}

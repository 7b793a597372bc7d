package consumer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/Eursukkul/venue-booking/internal/notifier"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationConsumer delivers queued booking notifications through a
// Notifier, normally the SMTP mailer.
type NotificationConsumer struct {
	notifier notifier.Notifier
	logger   *slog.Logger
}

func NewNotificationConsumer(n notifier.Notifier, logger *slog.Logger) *NotificationConsumer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &NotificationConsumer{notifier: n, logger: logger.With("component", "notification-consumer")}
}

// Start handles deliveries until msgs is closed. The returned channel is
// closed once the loop exits.
func (nc *NotificationConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	return run(ctx, msgs, nc.handleMessage, nc.logger)
}

func (nc *NotificationConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var n notifier.Notification
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		nc.logger.Error("failed to unmarshal notification", "message_id", msg.MessageId, "error", err)
		msg.Nack(false, false)
		return
	}

	if err := nc.notifier.NotifySubmitted(ctx, n); err != nil {
		// notifications are best-effort: log and drop, never retry
		nc.logger.Error("failed to deliver notification",
			"booking_id", n.Summary.PrimaryID,
			"error", err,
		)
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
}

func run(ctx context.Context, msgs <-chan amqp.Delivery, handle func(context.Context, amqp.Delivery), logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, msg)
		}
		logger.Info("delivery channel closed, stopping consumer")
	}()
	return done
}

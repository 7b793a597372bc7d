package notifier

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RoutingKeySubmitted is the routing key booking notifications are published under.
const RoutingKeySubmitted = "booking.submitted"

type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, payload any) error
}

// QueueNotifier hands notifications to the broker; the mailer consumer
// delivers them out of process.
type QueueNotifier struct {
	publisher Publisher
}

func NewQueueNotifier(publisher Publisher) *QueueNotifier {
	return &QueueNotifier{publisher: publisher}
}

func (q *QueueNotifier) NotifySubmitted(ctx context.Context, n Notification) error {
	if err := q.publisher.Publish(ctx, RoutingKeySubmitted, uuid.NewString(), n); err != nil {
		return fmt.Errorf("queue booking notification: %w", err)
	}
	return nil
}

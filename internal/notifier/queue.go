package notifier

import (
	"context"
	"fmt"
)

// RoutingKeyRegistrationConfirmed carries RegistrationEmail payloads.
const RoutingKeyRegistrationConfirmed = "registration.confirmed"

// Publisher is satisfied by *rabbitmq.Publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// QueueNotifier hands the email to the message broker; delivery happens in
// the notification consumer.
type QueueNotifier struct {
	pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (n *QueueNotifier) SendRegistrationEmail(ctx context.Context, msg RegistrationEmail) error {
	if err := n.pub.Publish(ctx, RoutingKeyRegistrationConfirmed, msg); err != nil {
		return fmt.Errorf("enqueue registration email: %w", err)
	}
	return nil
}

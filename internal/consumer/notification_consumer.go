package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Eursukkul/event-registration/internal/notifier"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const NotificationQueue = "registration-service.notifications"

var NotificationBindings = []string{notifier.RoutingKeyRegistrationConfirmed}

// NotificationConsumer delivers queued registration emails through a mail
// notifier. Failed sends are requeued once; a redelivered message that fails
// again is dropped so a bad address cannot loop forever.
type NotificationConsumer struct {
	mail    notifier.Notifier
	timeout time.Duration
	log     *zap.Logger
}

func NewNotificationConsumer(mail notifier.Notifier, timeout time.Duration, log *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{mail: mail, timeout: timeout, log: log}
}

func (nc *NotificationConsumer) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return channelClosed(ctx, nc.log, NotificationQueue)
			}
			nc.handleMessage(ctx, msg)
		}
	}
}

func (nc *NotificationConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var email notifier.RegistrationEmail
	if err := json.Unmarshal(msg.Body, &email); err != nil || email.To == "" {
		nc.log.Warn("drop malformed notification", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	sctx, cancel := context.WithTimeout(ctx, nc.timeout)
	defer cancel()

	log := nc.log.With(zap.String("to", email.To), zap.String("transaction_id", email.TransactionID))
	if err := nc.mail.SendRegistrationEmail(sctx, email); err != nil {
		requeue := !msg.Redelivered
		log.Error("registration email failed", zap.Bool("requeue", requeue), zap.Error(err))
		_ = msg.Nack(false, requeue)
		return
	}

	log.Info("registration email sent")
	_ = msg.Ack(false)
}

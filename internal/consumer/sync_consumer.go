package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrDeliveryChannelClosed is returned by Run when the broker closes the
// delivery channel before ctx is done, usually because the connection dropped.
var ErrDeliveryChannelClosed = errors.New("delivery channel closed")

// SyncQueue is the durable queue feeding the catalog replica.
const SyncQueue = "registration-service.sync"

// SyncBindings are the routing keys the catalog replica listens to.
var SyncBindings = []string{"event.*", "user.*"}

// SyncConsumer keeps the local Event Catalog and Account Directory replicas
// up to date from the owning services' change messages.
type SyncConsumer struct {
	events repository.EventRepository
	users  repository.UserRepository
	log    *zap.Logger
}

func NewSyncConsumer(events repository.EventRepository, users repository.UserRepository, log *zap.Logger) *SyncConsumer {
	return &SyncConsumer{events: events, users: users, log: log}
}

// Run handles deliveries until ctx is cancelled. A channel closed under a
// live ctx returns ErrDeliveryChannelClosed.
func (sc *SyncConsumer) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return channelClosed(ctx, sc.log, SyncQueue)
			}
			sc.handleMessage(ctx, msg)
		}
	}
}

func (sc *SyncConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	log := sc.log.With(zap.String("routing_key", msg.RoutingKey))

	var err error
	var id string
	switch {
	case strings.HasPrefix(msg.RoutingKey, "event."):
		var event models.Event
		if jerr := json.Unmarshal(msg.Body, &event); jerr != nil {
			log.Warn("drop malformed event message", zap.Error(jerr))
			_ = msg.Nack(false, false)
			return
		}
		id = event.ID.String()
		err = sc.events.Upsert(ctx, &event)

	case strings.HasPrefix(msg.RoutingKey, "user."):
		var user models.User
		if jerr := json.Unmarshal(msg.Body, &user); jerr != nil {
			log.Warn("drop malformed user message", zap.Error(jerr))
			_ = msg.Nack(false, false)
			return
		}
		id = user.ID.String()
		err = sc.users.Upsert(ctx, &user)

	default:
		log.Warn("skip unknown routing key")
		_ = msg.Ack(false)
		return
	}

	if err != nil {
		log.Error("replica upsert failed, requeueing", zap.String("id", id), zap.Error(err))
		_ = msg.Nack(false, true)
		return
	}

	log.Info("replica synced", zap.String("id", id))
	_ = msg.Ack(false)
}

func channelClosed(ctx context.Context, log *zap.Logger, queue string) error {
	if ctx.Err() != nil {
		return nil
	}
	log.Error("delivery channel closed unexpectedly", zap.String("queue", queue))
	return fmt.Errorf("%s: %w", queue, ErrDeliveryChannelClosed)
}

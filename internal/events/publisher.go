package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const defaultPublishTimeout = 5 * time.Second

// Publisher delivers envelopes to the event bus.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// NoopPublisher drops every event. It is used when no topic is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Envelope) error { return nil }

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type topic interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

// PubSubPublisher publishes envelopes to a Pub/Sub topic and waits for the
// server ack.
type PubSubPublisher struct {
	topic   topic
	timeout time.Duration
}

func NewPubSubPublisher(p *gcppubsub.Publisher) (*PubSubPublisher, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher is required")
	}
	return &PubSubPublisher{topic: &gcpTopic{Publisher: p}, timeout: defaultPublishTimeout}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	msg := &gcppubsub.Message{
		Data: raw,
		Attributes: map[string]string{
			"event_id":     env.EventID,
			"event_type":   env.EventType,
			"aggregate_id": env.AggregateID,
			"occurred_at":  env.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	result := p.topic.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", env.EventType, err)
	}
	return nil
}

type gcpTopic struct {
	*gcppubsub.Publisher
}

func (t *gcpTopic) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return t.Publisher.Publish(ctx, msg)
}

// OrderNotifier publishes order.created on a best-effort basis: failures are
// logged and never reach the caller.
type OrderNotifier struct {
	publisher Publisher
	logg      *logger.Logger
}

func NewOrderNotifier(publisher Publisher, logg *logger.Logger) *OrderNotifier {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &OrderNotifier{publisher: publisher, logg: logg}
}

func (n *OrderNotifier) OrderCreated(ctx context.Context, o orders.Order) {
	logCtx := n.logg.WithFields(ctx, map[string]any{"order_id": o.ID, "customer_id": o.CustomerID})
	env, err := NewOrderCreated(o)
	if err != nil {
		n.logg.Error(logCtx, "events.order_created_encode_failed", err)
		return
	}
	if err := n.publisher.Publish(ctx, env); err != nil {
		n.logg.Error(n.logg.WithField(logCtx, "event_id", env.EventID), "events.order_created_publish_failed", err)
		return
	}
	n.logg.Info(n.logg.WithField(logCtx, "event_id", env.EventID), "events.order_created_published")
}

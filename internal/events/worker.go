package events

import (
	"context"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const consumerName = "order_events"

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *gcppubsub.Message)) error
}

type rowWriter interface {
	Write(ctx context.Context, env Envelope) error
}

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Worker consumes order events from Pub/Sub and writes each one to
// BigQuery at most once per idempotency window.
type Worker struct {
	subscription receiver
	writer       rowWriter
	store        idempotencyStore
	ttl          time.Duration
	logg         *logger.Logger
}

func NewWorker(subscription *gcppubsub.Subscriber, writer rowWriter, store idempotencyStore, ttl time.Duration, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("order events subscription is required")
	}
	return newWorker(subscription, writer, store, ttl, logg)
}

func newWorker(subscription receiver, writer rowWriter, store idempotencyStore, ttl time.Duration, logg *logger.Logger) (*Worker, error) {
	if writer == nil {
		return nil, errors.New("row writer is required")
	}
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{subscription: subscription, writer: writer, store: store, ttl: ttl, logg: logg}, nil
}

// Run consumes messages until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg) {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// process reports whether the message should be redelivered.
func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) bool {
	logCtx := w.logg.WithField(ctx, "message_id", msg.ID)

	env, err := DecodeEnvelope(msg.Data)
	if err != nil {
		w.logg.Warn(w.logg.WithField(logCtx, "error", err.Error()), "events.invalid_envelope")
		return false
	}
	logCtx = w.logg.WithFields(logCtx, map[string]any{
		"event_id":   env.EventID,
		"event_type": env.EventType,
	})
	if env.EventType != EventOrderCreated {
		w.logg.Warn(logCtx, "events.unsupported_type")
		return false
	}

	key := w.store.IdempotencyKey("evt:processed:"+consumerName, env.EventID)
	first, err := w.store.SetNX(logCtx, key, "1", w.ttl)
	if err != nil {
		w.logg.Error(logCtx, "events.idempotency_check_failed", err)
		return true
	}
	if !first {
		w.logg.Info(logCtx, "events.already_processed")
		return false
	}

	if err := w.writer.Write(logCtx, *env); err != nil {
		w.logg.Error(logCtx, "events.write_failed", err)
		if delErr := w.store.Del(logCtx, key); delErr != nil {
			w.logg.Error(logCtx, "events.idempotency_release_failed", delErr)
		}
		return true
	}
	w.logg.Info(logCtx, "events.order_event_written")
	return false
}

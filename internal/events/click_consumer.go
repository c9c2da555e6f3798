package events

import (
	"context"
	"strings"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// DailyIncrementer is satisfied by the Mongo click stats repository.
type DailyIncrementer interface {
	IncDaily(ctx context.Context, code string, at time.Time) error
}

// ClickRollup folds ClickRecorded messages into per-day counters.
type ClickRollup struct {
	stats        DailyIncrementer
	operationTTL time.Duration
}

func NewClickRollup(stats DailyIncrementer, operationTTL time.Duration) *ClickRollup {
	if operationTTL <= 0 {
		operationTTL = 5 * time.Second
	}
	return &ClickRollup{stats: stats, operationTTL: operationTTL}
}

// Handle processes one message. A nil error means the offset may be
// committed: malformed payloads are logged and skipped rather than retried.
// Delivery is at-least-once, so a redelivered message is counted again.
func (c *ClickRollup) Handle(ctx context.Context, msg kafka.Message) error {
	event, occurredAt, err := DecodeClickRecorded(msg.Value, msg.Time)
	if err != nil {
		logger.Warn("invalid click event payload, skipping",
			zap.Error(err),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, c.operationTTL)
	defer cancel()

	if err := c.stats.IncDaily(opCtx, event.ShortCode, occurredAt); err != nil {
		return err
	}

	logger.Debug("click rolled up",
		zap.String("event_id", event.EventID),
		zap.String("short_code", event.ShortCode),
		zap.Time("occurred_at", occurredAt),
	)
	return nil
}

// MessageFunc is one step applied to a fetched message.
type MessageFunc func(ctx context.Context, msg kafka.Message) error

// Process runs handle until it succeeds, then commit until it succeeds,
// waiting backoff between failed attempts. A successful handle is never
// repeated, so a failing commit cannot count the same click twice within
// this process. It returns ctx.Err() if ctx ends first.
func Process(ctx context.Context, msg kafka.Message, handle, commit MessageFunc, backoff time.Duration) error {
	if err := retryStep(ctx, "handle", msg, handle, backoff); err != nil {
		return err
	}
	return retryStep(ctx, "commit", msg, commit, backoff)
}

func retryStep(ctx context.Context, step string, msg kafka.Message, fn MessageFunc, backoff time.Duration) error {
	for {
		err := fn(ctx, msg)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger.Error("click event "+step+" failed, retrying",
			zap.Error(err),
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// ContextFromHeaders restores the trace context injected by
// KafkaClickPublisher.
func ContextFromHeaders(parent context.Context, headers []kafka.Header) context.Context {
	carrier := propagation.MapCarrier{}
	for _, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header.Key))
		if key == "" {
			continue
		}
		carrier.Set(key, string(header.Value))
	}
	return otel.GetTextMapPropagator().Extract(parent, carrier)
}

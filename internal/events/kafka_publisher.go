package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaClickPublisher writes ClickRecorded events keyed by short code, so
// all clicks of one link land on the same partition in order.
type KafkaClickPublisher struct {
	writer MessageWriter
	newID  func() string
}

// NewKafkaWriter returns an async writer: WriteMessages only enqueues and
// delivery errors surface through the Completion callback.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("failed to deliver click events", zap.Error(err), zap.Int("count", len(messages)))
			}
		},
	}
}

func NewKafkaClickPublisher(writer MessageWriter) *KafkaClickPublisher {
	return &KafkaClickPublisher{
		writer: writer,
		newID:  func() string { return uuid.NewString() },
	}
}

func (p *KafkaClickPublisher) PublishClick(ctx context.Context, code string, click links.Click) error {
	event := ClickRecorded{
		EventID:    p.newID(),
		ShortCode:  code,
		Referrer:   click.Referrer,
		OccurredAt: click.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode click event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]kafka.Header, 0, len(carrier)+1)
	headers = append(headers, kafka.Header{Key: "eventType", Value: []byte(ClickRecordedType)})
	for key, v := range carrier {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(code),
		Value:   value,
		Time:    click.Timestamp.UTC(),
		Headers: headers,
	})
}

func (p *KafkaClickPublisher) Close() error {
	return p.writer.Close()
}

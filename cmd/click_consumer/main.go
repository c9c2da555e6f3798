package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/config"
	"github.com/IgorGrieder/shortlinks/internal/events"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/db"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/telemetry"
	mongoStorage "github.com/IgorGrieder/shortlinks/internal/storage/mongo"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Fatal("KAFKA_BROKERS must contain at least one broker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serviceName := cfg.App.Name + "-click-consumer"
	if cfg.OTel.Enabled {
		shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Options{
			Endpoint:       cfg.OTel.Endpoint,
			ServiceName:    serviceName,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Env,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracer(shutdownCtx); err != nil {
					logger.Warn("failed to shutdown tracer", zap.Error(err))
				}
			}()
		}
	}

	mongoConn, err := db.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoConn.Disconnect(disconnectCtx)
	}()

	statsRepo, err := mongoStorage.NewClickStatsRepository(mongoConn)
	if err != nil {
		logger.Fatal("failed to initialize stats repository", zap.Error(err))
	}
	rollup := events.NewClickRollup(statsRepo, cfg.Kafka.OperationTimeout)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.ClickTopic,
		GroupID:     cfg.Kafka.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     cfg.Kafka.FetchMaxWait,
		StartOffset: kafka.FirstOffset,
		Dialer: &kafka.Dialer{
			ClientID:  config.DefaultWorkerID(serviceName),
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	})
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Warn("failed to close kafka reader", zap.Error(err))
		}
	}()

	logger.Info("click consumer started",
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("kafka_topic", cfg.Kafka.ClickTopic),
		zap.String("kafka_group", cfg.Kafka.ConsumerGroup),
	)

	handle := func(ctx context.Context, msg kafka.Message) error {
		return consume(ctx, rollup, msg)
	}
	commit := func(ctx context.Context, msg kafka.Message) error {
		if err := reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset: %w", err)
		}
		return nil
	}

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("click consumer stopping")
				return
			}
			logger.Error("failed to fetch kafka message", zap.Error(err))
			sleep(ctx, cfg.Kafka.RetryBackoff)
			continue
		}

		// The reader has moved past msg; Process holds it until committed.
		if err := events.Process(ctx, msg, handle, commit, cfg.Kafka.RetryBackoff); err != nil {
			logger.Info("click consumer stopping", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}
	}
}

// consume handles one message inside a consumer span linked to the
// producer's trace.
func consume(ctx context.Context, rollup *events.ClickRollup, msg kafka.Message) error {
	spanCtx, span := telemetry.StartSpan(
		events.ContextFromHeaders(ctx, msg.Headers),
		"kafka.consume.click_recorded",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.String("messaging.operation", "process"),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	if err := rollup.Handle(spanCtx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "process click event failed")
		return err
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

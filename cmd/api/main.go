package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/config"
	"github.com/IgorGrieder/shortlinks/internal/events"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/db"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/eventlog"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/telemetry"
	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"github.com/IgorGrieder/shortlinks/internal/storage/mongo"
	httpTransport "github.com/IgorGrieder/shortlinks/internal/transport/http"
	"github.com/IgorGrieder/shortlinks/pkg/httpclient"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTel.Enabled {
		shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Options{
			Endpoint:       cfg.OTel.Endpoint,
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Env,
		})
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized", zap.String("endpoint", cfg.OTel.Endpoint))
			defer shutdownWithTimeout("tracer", shutdownTracer)
		}
	}

	// One attempt per event; Log never waits on the sink.
	eventLog := eventlog.New(
		httpclient.NewClient(httpclient.Options{Timeout: cfg.LogSink.Timeout}),
		eventlog.Options{
			URL:         cfg.LogSink.URL,
			AccessToken: cfg.LogSink.AccessToken,
			Stack:       cfg.LogSink.Stack,
			Timeout:     cfg.LogSink.Timeout,
			MaxInFlight: cfg.LogSink.MaxInFlight,
		},
	)
	defer shutdownWithTimeout("event log", eventLog.Close)

	mongoConn, err := db.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		eventLog.Log("fatal", "db", "Connection failed: "+err.Error())
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	eventLog.Log("info", "db", "MongoDB connection established")
	logger.Info("MongoDB connected", zap.String("database", cfg.MongoDB.Database))
	defer shutdownWithTimeout("mongo", mongoConn.Disconnect)

	linkRepo, err := mongo.NewLinksRepository(mongoConn)
	if err != nil {
		return fmt.Errorf("initialize links repository: %w", err)
	}
	statsRepo, err := mongo.NewClickStatsRepository(mongoConn)
	if err != nil {
		return fmt.Errorf("initialize click stats repository: %w", err)
	}

	opts := links.ServiceOptions{
		SlugLength:      cfg.Shortener.SlugLength,
		DefaultValidity: cfg.Shortener.DefaultValidity,
		MaxValidity:     cfg.Shortener.MaxValidity,
		Events:          eventLog,
	}
	if cfg.Kafka.Enabled {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.ClickTopic)
		publisher := events.NewKafkaClickPublisher(writer)
		opts.Publisher = publisher
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("Failed to close kafka writer", zap.Error(err))
			}
		}()
		logger.Info("Click events enabled",
			zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
			zap.String("kafka_topic", cfg.Kafka.ClickTopic),
		)
	}

	linkSvc := links.NewService(linkRepo, statsRepo, links.NewNanoidSlugger(), opts)
	router := httpTransport.NewRouter(cfg, linkSvc)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.App.Env),
			zap.String("address", fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)),
			zap.String("base_url", cfg.Shortener.BaseURL),
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// shutdownWithTimeout is deferred for each dependency; defers run in reverse,
// so the event log is flushed after Mongo and Kafka are closed.
func shutdownWithTimeout(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Warn("Failed to shut down "+name, zap.Error(err))
	}
}

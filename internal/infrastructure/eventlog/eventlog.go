// Package eventlog ships operation events to the remote log sink without
// ever blocking or failing the request that produced them.
package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/metrics"
	"github.com/IgorGrieder/shortlinks/pkg/httpclient"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Entry is the sink's wire format.
type Entry struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

type ack struct {
	LogID string `json:"logID"`
}

// Poster is satisfied by *httpclient.Client.
type Poster interface {
	Post(ctx context.Context, url string, body any, headers map[string]string) (*http.Response, error)
}

type Options struct {
	URL         string
	AccessToken string
	Stack       string
	Timeout     time.Duration
	MaxInFlight int
}

type Logger struct {
	client  Poster
	url     string
	token   string
	stack   string
	timeout time.Duration

	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	closed atomic.Bool
}

// New returns a Logger. An empty opts.URL yields a Logger that only writes
// events to the local log.
func New(client Poster, opts Options) *Logger {
	if opts.Stack == "" {
		opts.Stack = "backend"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = 64
	}

	return &Logger{
		client:  client,
		url:     opts.URL,
		token:   opts.AccessToken,
		stack:   opts.Stack,
		timeout: opts.Timeout,
		sem:     semaphore.NewWeighted(int64(opts.MaxInFlight)),
	}
}

// Log schedules delivery of one event and returns immediately. Delivery
// failures are reported to the local log only.
func (l *Logger) Log(level, pkg, message string) {
	entry := Entry{Stack: l.stack, Level: level, Package: pkg, Message: message}
	logger.Debug("event",
		zap.String("level", level),
		zap.String("package", pkg),
		zap.String("message", message),
	)

	if l.url == "" || l.client == nil || l.closed.Load() {
		return
	}

	if !l.sem.TryAcquire(1) {
		metrics.EventLogDeliveries.WithLabelValues(metrics.DeliveryDropped).Inc()
		logger.Warn("event log saturated, dropping event", zap.String("message", message))
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.sem.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		logID, err := l.deliver(ctx, entry)
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			metrics.EventLogDeliveries.WithLabelValues(metrics.DeliveryDropped).Inc()
			logger.Debug("event log circuit open, dropping event", zap.String("message", message))
			return
		}
		if err != nil {
			metrics.EventLogDeliveries.WithLabelValues(metrics.DeliveryFailed).Inc()
			logger.Warn("event log delivery failed", zap.Error(err), zap.String("message", message))
			return
		}
		metrics.EventLogDeliveries.WithLabelValues(metrics.DeliverySent).Inc()
		logger.Debug("event log delivered", zap.String("log_id", logID))
	}()
}

func (l *Logger) deliver(ctx context.Context, entry Entry) (string, error) {
	headers := map[string]string{}
	if l.token != "" {
		headers["Authorization"] = "Bearer " + l.token
	}

	resp, err := l.client.Post(ctx, l.url, entry, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read sink response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("sink responded %s: %s", resp.Status, truncate(string(body), 200))
	}

	var a ack
	if err := json.Unmarshal(body, &a); err != nil {
		return "", nil
	}
	return a.LogID, nil
}

// Close stops accepting events and waits for in-flight deliveries until ctx
// is done.
func (l *Logger) Close(ctx context.Context) error {
	l.closed.Store(true)

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

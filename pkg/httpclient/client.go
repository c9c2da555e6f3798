package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"go.uber.org/zap"
)

type Client struct {
	client     *http.Client
	cb         *CircuitBreaker
	maxRetries int
	baseDelay  time.Duration
}

type Options struct {
	Timeout     time.Duration
	MaxRetries  int
	BaseDelay   time.Duration
	MaxFailures int
	OpenTimeout time.Duration
}

// NewClient builds a client whose requests are retried with exponential
// backoff on network errors and 5xx responses. MaxRetries of zero sends
// each request exactly once.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 100 * time.Millisecond
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	return &Client{
		client:     &http.Client{Timeout: opts.Timeout},
		cb:         NewCircuitBreaker(opts.MaxFailures, opts.OpenTimeout),
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
	}
}

func (c *Client) Post(ctx context.Context, url string, body any, headers map[string]string) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	return c.attemptRequestWithRetry(ctx, func() (*http.Request, error) {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
		if err != nil {
			return nil, err
		}

		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	})
}

func (c *Client) attemptRequestWithRetry(ctx context.Context, reqFactory func() (*http.Request, error)) (*http.Response, error) {
	if err := c.cb.CheckBeforeRequest(); err != nil {
		return nil, err
	}

	const maxJitterMs = 100
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	var lastStatus string

	for i := 0; i <= c.maxRetries; i++ {
		req, err := reqFactory()
		if err != nil {
			// Settle the breaker; a half-open probe must not stay pending.
			c.cb.OnFailure()
			return nil, fmt.Errorf("error creating request: %w", err)
		}

		response, err := c.client.Do(req)
		if err == nil && response.StatusCode < 500 {
			c.cb.OnSuccess()
			return response, nil
		}

		lastErr = err
		if response != nil {
			lastStatus = response.Status
			response.Body.Close()
		}

		if i == c.maxRetries {
			break
		}

		backoff := c.baseDelay * time.Duration(math.Pow(2, float64(i)))
		jitter := time.Duration(r.Intn(maxJitterMs)) * time.Millisecond
		sleepDuration := backoff + jitter

		logger.Debug("request failed, retrying",
			zap.Int("attempt", i+1),
			zap.Duration("sleep_duration", sleepDuration),
		)

		select {
		case <-ctx.Done():
			c.cb.OnFailure()
			return nil, ctx.Err()
		case <-time.After(sleepDuration):
		}
	}

	c.cb.OnFailure()

	if lastErr != nil {
		return nil, fmt.Errorf("request failed after %d attempt(s), last network error: %w", c.maxRetries+1, lastErr)
	}

	return nil, fmt.Errorf("request failed after %d attempt(s), last status: %s", c.maxRetries+1, lastStatus)
}

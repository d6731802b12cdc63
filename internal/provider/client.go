package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/albapepper/scoracle-games/internal/ratelimit"
)

// Client is the HTTP plumbing shared by all provider handlers. Each handler
// owns one Client; the rate limiter gates every outbound call and is shared
// across all sports the provider serves.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	provider   string
}

// NewClient creates a provider HTTP client with an explicit per-request
// timeout. A hung upstream fails the call instead of stalling a sweep.
func NewClient(provider string, limiter *ratelimit.Limiter, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		provider:   provider,
	}
}

// Get performs a rate-limited GET and returns the response body.
//
// 429 responses and transport errors (timeouts included) are retried with
// exponential backoff; other non-2xx statuses fail immediately. The limiter
// is re-acquired before each retry so retries still count against the quota.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var body []byte

	operation := func() error {
		if err := c.limiter.Acquire(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Transport errors (connection refused, timeout) are retryable.
			return fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%s returned 429, backing off", c.provider)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read response body: %w", err))
		}

		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%s returned %d: %s", c.provider, resp.StatusCode, Truncate(b, 200)))
		}

		body = b
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 20 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, 2), ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// Truncate returns a truncated string representation for error messages.
func Truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

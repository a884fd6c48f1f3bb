// Package fetch provides the rate-limited HTTP client every adapter issues
// its outbound requests through.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// userAgent identifies the sync pipeline to providers and scraped sites.
const userAgent = "EventSync/1.0 (educational project)"

// Client spaces consecutive requests by at least the configured interval and
// applies a fixed per-request timeout. There are no retries: a failed or
// timed-out call propagates to the caller, which decides whether a partial
// result is acceptable.
type Client struct {
	label      string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// New creates a rate-limited client. Each adapter owns one instance sized to
// its provider's tolerance; the limiter state is per-instance, so two
// adapters never contend on the same bucket.
func New(label string, minInterval, timeout time.Duration) *Client {
	// Token bucket with burst 1 is exactly min-interval spacing.
	return &Client{
		label:      label,
		limiter:    rate.NewLimiter(rate.Every(minInterval), 1),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Get performs a rate-limited GET and returns the response body. Non-2xx
// statuses are errors carrying the client label, method, and status code.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("[%s] rate limit wait: %w", c.label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("[%s] create request: %w", c.label, err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[%s] %s %s: %w", c.label, http.MethodGet, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("[%s] %s %s: HTTP %d", c.label, http.MethodGet, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[%s] read body: %w", c.label, err)
	}
	return body, nil
}

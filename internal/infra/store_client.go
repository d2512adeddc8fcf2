package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const storeClientUserAgent = "Mozilla/5.0 (compatible; YellowknifeGroceryTracker/1.0)"

// StoreClient checks that a store website answers. It does not parse pages.
type StoreClient struct {
	httpClient *http.Client
	breakers   *BreakerSet
	maxRetries int
	backoff    time.Duration
}

type StoreClientConfig struct {
	Timeout    time.Duration
	MaxRetries int           // attempts per probe, at least one
	Backoff    time.Duration // base delay, doubled after each failed attempt
	Breaker    CircuitBreakerConfig
}

func NewStoreClient(cfg StoreClientConfig) *StoreClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &StoreClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breakers:   NewBreakerSet(cfg.Breaker),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
	}
}

// Probe issues GET rawURL, retrying transport errors and 5xx answers.
// A 4xx answer is final. Repeated failures open the host's breaker and
// later probes fail with ErrCircuitOpen until it half-opens.
func (c *StoreClient) Probe(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("store client: invalid url %q", rawURL)
	}

	return c.breakers.Get(u.Host).Execute(func() error {
		delay := c.backoff
		var lastErr error
		for attempt := 1; attempt <= c.maxRetries; attempt++ {
			lastErr = c.get(ctx, rawURL)
			if lastErr == nil {
				return nil
			}
			var perm *permanentError
			if errors.As(lastErr, &perm) || attempt == c.maxRetries {
				break
			}
			log.Debug().Err(lastErr).Str("host", u.Host).Int("attempt", attempt).Msg("store probe failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		return lastErr
	})
}

type permanentError struct{ status int }

func (e *permanentError) Error() string { return fmt.Sprintf("store client: status %d", e.status) }

func (c *StoreClient) get(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("store client: create request: %w", err)
	}
	req.Header.Set("User-Agent", storeClientUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store client: unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("store client: status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return &permanentError{status: resp.StatusCode}
	}
	return nil
}

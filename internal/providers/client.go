// Package providers holds the guarded HTTP client shared by every external data source.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Request outcomes reported to the Observer
const (
	ResultHit         = "cache_hit"
	ResultSuccess     = "success"
	ResultNotFound    = "not_found"
	ResultError       = "error"
	ResultShape       = "shape_mismatch"
	ResultUnavailable = "unavailable"
)

// Observer is told the outcome of every request, typically a metrics counter
type Observer func(provider, result string)

// Config tunes a Client
type Config struct {
	Name              string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	BreakerThreshold  uint32
	BreakerTimeout    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBreaker shares an externally owned circuit breaker
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithObserver reports request outcomes
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client performs JSON GETs through a read-through cache, a rate limiter and a circuit breaker
type Client struct {
	name    string
	http    *http.Client
	cache   dfs.CacheProvider
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
	observe Observer
}

// NewClient creates a guarded client. cache may be nil.
func NewClient(cfg Config, cache dfs.CacheProvider, logger *logrus.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSecond)
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	c := &Client{
		name:    cfg.Name,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
		observe: func(string, string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = NewBreaker(cfg.Name, cfg.BreakerThreshold, cfg.BreakerTimeout, logger)
	}
	return c
}

// NewBreaker trips after threshold consecutive failures. Not-found responses are not failures.
func NewBreaker(name string, threshold uint32, timeout time.Duration, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, dfs.ErrNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"provider":  name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	})
}

// Name identifies the provider in logs and metrics
func (c *Client) Name() string {
	return c.name
}

// GetJSON decodes url into dest. With a cache key, a cached copy is served when present and
// fresh responses are cached for ttl.
func (c *Client) GetJSON(ctx context.Context, url, cacheKey string, ttl time.Duration, dest interface{}) error {
	if c.cache != nil && cacheKey != "" {
		if err := c.cache.Get(ctx, cacheKey, dest); err == nil {
			c.observe(c.name, ResultHit)
			return nil
		}
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		c.observe(c.name, resultOf(err))
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.observe(c.name, ResultShape)
		return fmt.Errorf("%s: decode %s: %w: %v", c.name, url, dfs.ErrShapeMismatch, err)
	}
	c.observe(c.name, ResultSuccess)

	if c.cache != nil && cacheKey != "" && ttl > 0 {
		if err := c.cache.Set(ctx, cacheKey, dest, ttl); err != nil {
			c.logger.WithError(err).WithField("key", cacheKey).Warn("Failed to cache provider response")
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limit: %w: %v", c.name, dfs.ErrProviderUnavailable, err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dfs.ErrProviderUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, dfs.ErrNotFound
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("%w: status %d", dfs.ErrProviderUnavailable, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", dfs.ErrProviderUnavailable, err)
		}
		c.logger.WithError(err).WithFields(logrus.Fields{
			"provider": c.name,
			"url":      url,
		}).Debug("Provider request failed")
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return out.([]byte), nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, dfs.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, dfs.ErrProviderUnavailable):
		return ResultUnavailable
	default:
		return ResultError
	}
}

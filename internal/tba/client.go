package tba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/config"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/storage"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "tba:"

// rateLimitBuffer is added to the wait when the minute window is exhausted
// so clock skew between us and the upstream cannot push a request over.
const rateLimitBuffer = time.Second

// Client turns a logical TBA API path into cached, rate-limited JSON data.
// All outbound requests funnel through a single FIFO drain loop, so the
// aggregate request rate stays under the configured ceiling no matter how
// many goroutines fetch concurrently, and no request is starved.
type Client struct {
	cfg        config.TBAConfig
	store      storage.Store
	httpClient *http.Client
	queue      chan *fetchRequest

	mu          sync.Mutex
	windowStart time.Time
	windowCount int
}

type fetchRequest struct {
	path   string
	result chan fetchResult
}

type fetchResult struct {
	data json.RawMessage
	err  error
}

// NewClient creates a client and starts its dispatch loop. One instance per
// process; inject it wherever fetches are needed.
func NewClient(cfg config.TBAConfig, store storage.Store) *Client {
	c := &Client{
		cfg:   cfg,
		store: store,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		queue:       make(chan *fetchRequest, 256),
		windowStart: time.Now(),
	}

	go c.drain()

	return c
}

// Fetch returns the JSON payload for path, from cache when possible. Cache
// hits bypass the queue and cost nothing against the rate budget. If ctx is
// done before the request is serviced, Fetch returns early but the queued
// request still completes and feeds the cache for future calls.
func (c *Client) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	if c.cfg.AuthKey == "" {
		return nil, ErrMissingAuthKey
	}

	if data := c.store.GetCachedData(cacheKeyPrefix + path); data != nil {
		logger.Debug("TBA cache hit", zap.String("path", path))
		return json.RawMessage(data), nil
	}

	req := &fetchRequest{
		path:   path,
		result: make(chan fetchResult, 1),
	}

	select {
	case c.queue <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.result:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RequestsThisWindow reports how many requests were dispatched in the
// current rate-limit window.
func (c *Client) RequestsThisWindow() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.windowStart) > c.cfg.RateLimitWindow {
		return 0
	}
	return c.windowCount
}

// drain services the request queue one at a time in arrival order.
func (c *Client) drain() {
	for req := range c.queue {
		// A request queued behind an identical path may already have been
		// answered and cached; skip the network round trip if so.
		if data := c.store.GetCachedData(cacheKeyPrefix + req.path); data != nil {
			req.result <- fetchResult{data: json.RawMessage(data)}
			continue
		}

		c.waitForSlot()

		data, err := c.doRequest(req.path)
		req.result <- fetchResult{data: data, err: err}
	}
}

// waitForSlot blocks until the current rate-limit window has room for one
// more request. The wait is bounded by one window plus a small buffer.
func (c *Client) waitForSlot() {
	c.mu.Lock()

	now := time.Now()
	if now.Sub(c.windowStart) > c.cfg.RateLimitWindow {
		c.windowStart = now
		c.windowCount = 0
	}

	if c.windowCount >= c.cfg.RateLimitRequests {
		wait := c.cfg.RateLimitWindow - now.Sub(c.windowStart) + rateLimitBuffer
		c.mu.Unlock()

		logger.Warn("TBA rate limit reached, pausing dispatch",
			zap.Duration("wait", wait),
			zap.Int("limit", c.cfg.RateLimitRequests))
		time.Sleep(wait)

		c.mu.Lock()
		c.windowStart = time.Now()
		c.windowCount = 0
	}

	c.windowCount++
	c.mu.Unlock()
}

// doRequest performs one HTTP call and caches the body on success.
// Failures are never cached.
func (c *Client) doRequest(path string) (json.RawMessage, error) {
	url := c.cfg.BaseURL + path

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("tba: building request for %s: %w", path, err)
	}
	req.Header.Set("X-TBA-Auth-Key", c.cfg.AuthKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("TBA API response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s: %w", path, ErrRateLimited)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Path:       path,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}
	if !json.Valid(body) {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     "invalid JSON body",
			Path:       path,
		}
	}

	c.store.SetCachedData(cacheKeyPrefix+path, body, int(c.cfg.CacheTTL.Seconds()))

	return body, nil
}

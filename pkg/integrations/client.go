package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/reqresolve/pkg/cache"
	"github.com/matzehuels/reqresolve/pkg/observability"
)

// Client provides shared HTTP functionality for registry API clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string

	attempts   int
	retryDelay time.Duration
}

// NewClient creates a Client backed by c. Cache keys are prefixed with
// namespace (e.g. "pypi:") and stored for ttl. Headers are applied to all
// requests; pass nil if no default headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:       NewHTTPClient(),
		cache:      c,
		namespace:  namespace,
		ttl:        ttl,
		headers:    headers,
		attempts:   3,
		retryDelay: time.Second,
	}
}

// SetTimeout replaces the per-request timeout. Non-positive values are ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// SetRetry configures how often retryable failures are attempted and the
// initial backoff delay.
func (c *Client) SetRetry(attempts int, delay time.Duration) {
	c.attempts = max(attempts, 1)
	c.retryDelay = delay
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored as JSON.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	cacheKey := cache.HTTPKey(c.namespace, key)
	label := strings.TrimSuffix(c.namespace, ":")
	hooks := observability.Cache()

	if !refresh {
		if data, ok, err := c.cache.Get(ctx, cacheKey); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, label)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, label)
	}

	if err := cache.Retry(ctx, c.attempts, c.retryDelay, fetch); err != nil {
		return err
	}

	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, cacheKey, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, label, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

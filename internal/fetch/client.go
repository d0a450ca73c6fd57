package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"btcpulse/internal/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultResourceTimeout = 60 * time.Second

	maxBodyBytes = 16 << 20
)

type Options struct {
	// RequestTimeout bounds the wait for response headers.
	RequestTimeout time.Duration
	// ResourceTimeout bounds the whole exchange including the body.
	ResourceTimeout time.Duration
	UserAgent       string
	Transport       http.RoundTripper
	Recorder        *metrics.Recorder
}

type cacheEntry struct {
	payload  []byte
	storedAt time.Time
}

// Client performs GET requests and keeps a URL keyed response cache whose
// TTL is chosen per request. Entries expire lazily when read.
type Client struct {
	http      *http.Client
	tracer    trace.Tracer
	recorder  *metrics.Recorder
	userAgent string
	timeout   time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry

	inflight singleflight.Group
}

func NewClient(tracer trace.Tracer, opts Options) *Client {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ResourceTimeout <= 0 {
		opts.ResourceTimeout = DefaultResourceTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "btcpulse/1.0"
	}
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: opts.RequestTimeout,
		}
	}
	return &Client{
		http:      &http.Client{Timeout: opts.ResourceTimeout, Transport: transport},
		tracer:    tracer,
		recorder:  opts.Recorder,
		userAgent: opts.UserAgent,
		timeout:   opts.ResourceTimeout,
		now:       time.Now,
		entries:   make(map[string]cacheEntry),
	}
}

// Fetch always goes to the network.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return c.shared(ctx, rawURL)
}

// FetchWithCache returns the cached body for rawURL if it is younger than
// ttl, otherwise fetches and stores the fresh body.
func (c *Client) FetchWithCache(ctx context.Context, rawURL string, ttl time.Duration) ([]byte, error) {
	if body, ok := c.lookup(rawURL, ttl); ok {
		c.recorder.CacheLookup("hit")
		return body, nil
	}
	body, err := c.shared(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	c.store(rawURL, body)
	return body, nil
}

// Fresh reports whether rawURL has a cached body younger than ttl. It does
// not touch the entry.
func (c *Client) Fresh(rawURL string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[rawURL]
	return ok && ttl > 0 && c.now().Sub(e.storedAt) < ttl
}

// Len is the number of entries currently held, expired or not.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every cached entry.
func (c *Client) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	c.recorder.SetCacheEntries(0)
}

func (c *Client) lookup(key string, ttl time.Duration) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.recorder.CacheLookup("miss")
		return nil, false
	}
	if ttl <= 0 || c.now().Sub(e.storedAt) >= ttl {
		delete(c.entries, key)
		c.recorder.CacheLookup("stale")
		c.recorder.SetCacheEntries(len(c.entries))
		return nil, false
	}
	return e.payload, true
}

func (c *Client) store(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: body, storedAt: c.now()}
	c.recorder.SetCacheEntries(len(c.entries))
}

// Evict drops the cached body for rawURL, e.g. after a caller found it
// undecodable.
func (c *Client) Evict(rawURL string) {
	c.evict(rawURL)
}

func (c *Client) evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.recorder.SetCacheEntries(len(c.entries))
}

// shared collapses concurrent requests for the same URL into one round trip.
// The round trip belongs to every waiter, so it runs detached from the
// caller's cancellation and is bounded by the client timeout instead. Each
// waiter still gives up on its own ctx.
func (c *Client) shared(ctx context.Context, rawURL string) ([]byte, error) {
	ch := c.inflight.DoChan(rawURL, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.do(ctx, rawURL)
	})
	select {
	case <-ctx.Done():
		return nil, &Error{Kind: ErrRequestFailed, URL: rawURL, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &Error{Kind: ErrInvalidURL, URL: rawURL, Err: err}
	}

	ctx, span := c.tracer.Start(ctx, "fetch.get")
	defer span.End()
	span.SetAttributes(attribute.String("http.host", u.Host), attribute.String("http.path", u.Path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidURL, URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.recorder.ObserveUpstream(u.Host, "transport_error", time.Since(start))
		return nil, &Error{Kind: ErrRequestFailed, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if kind := classifyStatus(resp.StatusCode); kind != nil {
		c.recorder.ObserveUpstream(u.Host, strconv.Itoa(resp.StatusCode), time.Since(start))
		return nil, &Error{Kind: kind, URL: rawURL, StatusCode: resp.StatusCode}
	}
	if readErr != nil {
		c.recorder.ObserveUpstream(u.Host, "transport_error", time.Since(start))
		return nil, &Error{Kind: ErrRequestFailed, URL: rawURL, Err: readErr}
	}
	c.recorder.ObserveUpstream(u.Host, "ok", time.Since(start))

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &Error{Kind: ErrNoData, URL: rawURL, StatusCode: resp.StatusCode}
	}
	return body, nil
}

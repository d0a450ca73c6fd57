package provider

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"btcpulse/internal/fetch"
)

// ErrNoData reports that a provider answered but had nothing for the
// requested key or period.
var ErrNoData = fetch.ErrNoData

// getJSON decodes rawURL through the shared client. A positive ttl serves
// from the response cache. The limiter is only consulted when the request
// will actually leave the process.
func getJSON[T any](ctx context.Context, c *fetch.Client, limiter *RateLimiter, rawURL string, ttl time.Duration) (T, error) {
	if limiter != nil && !c.Fresh(rawURL, ttl) {
		if err := limiter.Wait(ctx); err != nil {
			var zero T
			return zero, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if ttl <= 0 {
		return fetch.Get[T](ctx, c, rawURL)
	}
	return fetch.GetCached[T](ctx, c, rawURL, ttl)
}

func trimBase(baseURL, fallback string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = fallback
	}
	return strings.TrimRight(baseURL, "/")
}

// parseFloatOr parses a decimal string, returning def for empty or
// malformed input.
func parseFloatOr(v string, def float64) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return n
}

func parseIntOr(v string, def int64) int64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// unixTime accepts seconds or milliseconds and returns UTC. Zero stays zero.
func unixTime(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	if ts > 1_000_000_000_000 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}

func sanitizeText(v string, max int) string {
	v = strings.Join(strings.Fields(v), " ")
	if max <= 0 || utf8.RuneCountInString(v) <= max {
		return v
	}
	r := []rune(v)
	return strings.TrimSpace(string(r[:max]))
}

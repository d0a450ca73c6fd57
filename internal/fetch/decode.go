package fetch

import (
	"context"
	"encoding/json"
	"time"
)

// Get fetches rawURL and decodes the JSON body into T.
func Get[T any](ctx context.Context, c *Client, rawURL string) (T, error) {
	var out T
	body, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return out, err
	}
	return Decode[T](rawURL, body)
}

// GetCached is Get behind the response cache. A cached body that no longer
// decodes into T counts as a miss. Only bodies that decode are stored.
func GetCached[T any](ctx context.Context, c *Client, rawURL string, ttl time.Duration) (T, error) {
	if body, ok := c.lookup(rawURL, ttl); ok {
		if out, err := Decode[T](rawURL, body); err == nil {
			c.recorder.CacheLookup("hit")
			return out, nil
		}
		c.recorder.CacheLookup("corrupt")
		c.evict(rawURL)
	}

	var out T
	body, err := c.shared(ctx, rawURL)
	if err != nil {
		return out, err
	}
	out, err = Decode[T](rawURL, body)
	if err != nil {
		return out, err
	}
	c.store(rawURL, body)
	return out, nil
}

func Decode[T any](rawURL string, body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &Error{Kind: ErrDecode, URL: rawURL, Err: err}
	}
	return out, nil
}

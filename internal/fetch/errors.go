package fetch

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Match with errors.Is against any error returned by this package.
var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrRequestFailed   = errors.New("request failed")
	ErrRateLimited     = errors.New("rate limited")
	ErrInvalidResponse = errors.New("invalid response")
	ErrServerError     = errors.New("server error")
	ErrDecode          = errors.New("decode failed")
	ErrNoData          = errors.New("no data")
)

// Error carries the kind of failure along with the request it belongs to.
type Error struct {
	Kind       error
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsTransient reports whether a later attempt could plausibly succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrRequestFailed)
}

func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == 429:
		return ErrRateLimited
	case code >= 500:
		return ErrServerError
	default:
		return ErrInvalidResponse
	}
}

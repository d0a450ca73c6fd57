package provider

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

// stubClient answers every request with handler and counts round trips.
func stubClient(t *testing.T, handler func(req *http.Request) (int, string)) (*fetch.Client, *int) {
	t.Helper()
	calls := 0
	c := fetch.NewClient(testTracer(), fetch.Options{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			status, body := handler(req)
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
				Header:     make(http.Header),
			}, nil
		}),
	})
	return c, &calls
}

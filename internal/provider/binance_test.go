package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"btcpulse/internal/fetch"
)

func TestBinanceGlobalLongShort(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Path != "/futures/data/globalLongShortAccountRatio" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("symbol") != "BTCUSDT" || q.Get("period") != "1h" || q.Get("limit") != "1" {
			t.Fatalf("unexpected query: %s", req.URL.RawQuery)
		}
		return http.StatusOK, `[{"symbol":"BTCUSDT","longAccount":"0.6712","longAccountRatio":"2.1","shortAccount":"0.3288","shortAccountRatio":"0.48","longShortRatio":"2.0413","timestamp":1771009800000}]`
	})
	p := NewBinanceProvider(client, testTracer(), "http://example")

	rows, err := p.FetchGlobalLongShort(context.Background(), "BTCUSDT", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rows[0]
	if r.LongAccount != 0.6712 || r.ShortAccount != 0.3288 || r.Ratio != 2.0413 {
		t.Fatalf("unexpected row: %+v", r)
	}
	if r.LongAccountRatio != 2.1 || r.ShortAccountRatio != 0.48 {
		t.Fatalf("account ratios not mapped to their own fields: %+v", r)
	}
	if !r.Timestamp.Equal(time.UnixMilli(1771009800000)) {
		t.Fatalf("unexpected timestamp: %v", r.Timestamp)
	}
}

func TestBinanceMalformedNumbersUseDefaults(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Path != "/futures/data/topLongShortAccountRatio" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return http.StatusOK, `[{"longAccount":"n/a","longAccountRatio":"bad","shortAccount":"","longShortRatio":"x","timestamp":0}]`
	})
	p := NewBinanceProvider(client, testTracer(), "http://example")

	rows, err := p.FetchTopTraderLongShort(context.Background(), "BTCUSDT", "5m", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rows[0]
	if r.LongAccount != 0.5 || r.ShortAccount != 0.5 || r.Ratio != 1.0 || r.Symbol != "BTCUSDT" {
		t.Fatalf("expected defaults, got %+v", r)
	}
	if r.LongAccountRatio != 1.0 || r.ShortAccountRatio != 1.0 {
		t.Fatalf("expected default account ratios, got %+v", r)
	}
	if !r.Timestamp.IsZero() {
		t.Fatalf("expected zero timestamp, got %v", r.Timestamp)
	}
}

func TestBinanceEmptyAndRateLimited(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Query().Get("symbol") == "ETHUSDT" {
			return http.StatusTooManyRequests, `{"code":-1003}`
		}
		return http.StatusOK, `[]`
	})
	p := NewBinanceProvider(client, testTracer(), "http://example")

	if _, err := p.FetchGlobalLongShort(context.Background(), "BTCUSDT", "1h", 1); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := p.FetchGlobalLongShort(context.Background(), "ETHUSDT", "1h", 1); !errors.Is(err, fetch.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

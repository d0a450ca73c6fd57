package provider

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestCoinGeckoFetchDetail(t *testing.T) {
	client, calls := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Path != "/coins/bitcoin" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return http.StatusOK, `{"id":"bitcoin","last_updated":"2026-02-13T10:00:00Z","market_data":{
			"current_price":{"usd":97000},"price_change_percentage_24h":2.5,
			"ath":{"usd":126000},"ath_change_percentage":{"usd":-23.0},
			"circulating_supply":19800000,"market_cap":{"usd":1.9e12},"total_volume":{"usd":4.5e10}}}`
	})
	p := NewCoinGeckoProvider(client, testTracer(), "http://example")
	p.limiter = NewRateLimiter(10, time.Millisecond)

	d, err := p.FetchDetail(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.PriceUSD != 97000 || d.Change24hPct != 2.5 || d.ATHUSD != 126000 || d.ATHChangePct != -23 {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if d.CirculatingSupply != 19800000 || d.MarketCapUSD != 1.9e12 || d.Volume24hUSD != 4.5e10 {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if !d.LastUpdated.Equal(time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected last updated: %v", d.LastUpdated)
	}

	if _, err := p.FetchDetail(context.Background(), "bitcoin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *calls != 1 {
		t.Fatalf("expected cached second call, got %d round trips", *calls)
	}
}

func TestCoinGeckoFetchDetailWithoutPrice(t *testing.T) {
	client, _ := stubClient(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"id":"bitcoin","market_data":{"current_price":{}}}`
	})
	p := NewCoinGeckoProvider(client, testTracer(), "http://example")

	if _, err := p.FetchDetail(context.Background(), "bitcoin"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestCoinGeckoHistoricalDateFormat(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if got := req.URL.Query().Get("date"); got != "05-03-2025" {
			t.Fatalf("expected dd-MM-yyyy date, got %q", got)
		}
		if !strings.HasSuffix(req.URL.Path, "/coins/bitcoin/history") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return http.StatusOK, `{"market_data":{"current_price":{"usd":88000.5}}}`
	})
	p := NewCoinGeckoProvider(client, testTracer(), "http://example")

	price, err := p.FetchHistoricalPrice(context.Background(), "bitcoin", time.Date(2025, 3, 5, 18, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 88000.5 {
		t.Fatalf("expected 88000.5, got %f", price)
	}
}

func TestCoinGeckoSimplePrice(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if got := req.URL.Query().Get("ids"); got != "bitcoin,ethereum" {
			t.Fatalf("unexpected ids: %q", got)
		}
		return http.StatusOK, `{"bitcoin":{"usd":100},"ethereum":{"usd":0}}`
	})
	p := NewCoinGeckoProvider(client, testTracer(), "http://example")

	prices, err := p.FetchSimplePrice(context.Background(), "ethereum", "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 1 || prices["bitcoin"] != 100 {
		t.Fatalf("unexpected prices: %+v", prices)
	}
}

func TestCoinGeckoLongTermPricesAndNearest(t *testing.T) {
	base := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Query().Get("days") != "max" {
			t.Fatalf("expected days=max, got %s", req.URL.RawQuery)
		}
		return http.StatusOK, `{"prices":[[` +
			ms(base.AddDate(0, 0, 2)) + `,420],[` + ms(base) + `,400],[` + ms(base.AddDate(0, 0, 1)) + `,410],[1,0]]}`
	})
	p := NewCoinGeckoProvider(client, testTracer(), "http://example")

	points, err := p.FetchLongTermPrices(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 || points[0].Price != 400 || points[2].Price != 420 {
		t.Fatalf("expected sorted positive points, got %+v", points)
	}

	cases := []struct {
		target time.Time
		want   float64
	}{
		{base.AddDate(-1, 0, 0), 400},
		{base.Add(13 * time.Hour), 410},
		{base.Add(11 * time.Hour), 400},
		{base.AddDate(1, 0, 0), 420},
	}
	for _, tc := range cases {
		got, ok := NearestPrice(points, tc.target)
		if !ok || got.Price != tc.want {
			t.Fatalf("nearest to %v: expected %f, got %+v", tc.target, tc.want, got)
		}
	}
	if _, ok := NearestPrice(nil, base); ok {
		t.Fatal("expected no point for empty series")
	}
}

func ms(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

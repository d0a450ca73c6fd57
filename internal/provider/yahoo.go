package provider

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	yahooBaseURL     = "https://query1.finance.yahoo.com"
	yahooChartTTL    = 15 * time.Minute
	yahooLongTermTTL = 12 * time.Hour
)

// YahooProvider reads chart series for listed instruments.
type YahooProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
}

func NewYahooProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *YahooProvider {
	return &YahooProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, yahooBaseURL),
		tracer:  tracer,
	}
}

type yahooChartPayload struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Chart is one instrument's quote plus its close series. Timestamps and
// Closes are parallel; a nil close marks a missing sample.
type Chart struct {
	Quote      domain.Quote
	Timestamps []time.Time
	Closes     []*float64
}

// FetchChart returns the chart for symbol, e.g. range "1y" interval "1d".
func (p *YahooProvider) FetchChart(ctx context.Context, symbol, rng, interval string) (Chart, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-chart")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol), attribute.String("range", rng))

	return p.chart(ctx, symbol, rng, interval, yahooChartTTL)
}

// FetchLongTerm returns the monthly series over the instrument's full
// listing, used for 4Y and 10Y lookbacks.
func (p *YahooProvider) FetchLongTerm(ctx context.Context, symbol string) (Chart, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-long-term")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	return p.chart(ctx, symbol, "max", "1mo", yahooLongTermTTL)
}

func (p *YahooProvider) chart(ctx context.Context, symbol, rng, interval string, ttl time.Duration) (Chart, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.baseURL, url.PathEscape(symbol), q.Encode())

	payload, err := getJSON[yahooChartPayload](ctx, p.fetch, nil, u, ttl)
	if err != nil {
		return Chart{}, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}
	if e := payload.Chart.Error; e != nil {
		return Chart{}, fmt.Errorf("chart for %s: %s %s: %w", symbol, e.Code, e.Description, ErrNoData)
	}
	if len(payload.Chart.Result) == 0 {
		return Chart{}, fmt.Errorf("chart for %s has no result: %w", symbol, ErrNoData)
	}

	r := payload.Chart.Result[0]
	prev := r.Meta.PreviousClose
	if prev == 0 {
		prev = r.Meta.ChartPreviousClose
	}
	sym := r.Meta.Symbol
	if sym == "" {
		sym = symbol
	}
	c := Chart{
		Quote: domain.Quote{
			Symbol:        sym,
			Name:          r.Meta.ShortName,
			Price:         r.Meta.RegularMarketPrice,
			PreviousClose: prev,
		},
		Timestamps: make([]time.Time, 0, len(r.Timestamp)),
	}
	if prev > 0 {
		c.Quote.ChangePct = (c.Quote.Price - prev) / prev * 100
	}
	for _, ts := range r.Timestamp {
		c.Timestamps = append(c.Timestamps, time.Unix(ts, 0).UTC())
	}
	if len(r.Indicators.Quote) > 0 {
		c.Closes = r.Indicators.Quote[0].Close
	}
	return c, nil
}

// ClosestPoints finds, for each period, the close whose timestamp is nearest
// to the period's lookback date. Samples with no close are skipped. When the
// series is empty or the arrays disagree in length the result is empty.
func ClosestPoints(c Chart, periods []domain.Period, now time.Time) map[domain.Period]domain.TimeSeriesPoint {
	out := make(map[domain.Period]domain.TimeSeriesPoint, len(periods))
	if len(c.Timestamps) == 0 || len(c.Timestamps) != len(c.Closes) {
		return out
	}

	for _, p := range periods {
		target := p.Lookback(now)
		best, bestDist := -1, time.Duration(math.MaxInt64)
		for i, ts := range c.Timestamps {
			if c.Closes[i] == nil || *c.Closes[i] <= 0 {
				continue
			}
			d := ts.Sub(target)
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			continue
		}
		out[p] = domain.TimeSeriesPoint{Period: p, Price: *c.Closes[best], AsOf: c.Timestamps[best]}
	}
	return out
}

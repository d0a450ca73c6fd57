package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	binanceFuturesBaseURL = "https://fapi.binance.com"
	binanceTTL            = 5 * time.Minute

	defaultAccountShare = 0.5
	defaultRatio        = 1.0
)

// BinanceProvider reads account positioning from the USD-M futures data API.
type BinanceProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
}

func NewBinanceProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *BinanceProvider {
	return &BinanceProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, binanceFuturesBaseURL),
		tracer:  tracer,
	}
}

// Numbers arrive as strings, e.g. {"longAccount":"0.6712","timestamp":1700000000000}.
type binanceLongShortRow struct {
	Symbol            string `json:"symbol"`
	LongAccount       string `json:"longAccount"`
	LongAccountRatio  string `json:"longAccountRatio"`
	ShortAccount      string `json:"shortAccount"`
	ShortAccountRatio string `json:"shortAccountRatio"`
	LongShortRatio    string `json:"longShortRatio"`
	Timestamp         int64  `json:"timestamp"`
}

// FetchGlobalLongShort returns the account long/short ratio across all users,
// newest last.
func (p *BinanceProvider) FetchGlobalLongShort(ctx context.Context, symbol, period string, limit int) ([]domain.LongShortRatio, error) {
	return p.fetchRatios(ctx, "binance.fetch-global-long-short", "/futures/data/globalLongShortAccountRatio", symbol, period, limit)
}

// FetchTopTraderLongShort returns the same ratio restricted to top traders.
func (p *BinanceProvider) FetchTopTraderLongShort(ctx context.Context, symbol, period string, limit int) ([]domain.LongShortRatio, error) {
	return p.fetchRatios(ctx, "binance.fetch-top-trader-long-short", "/futures/data/topLongShortAccountRatio", symbol, period, limit)
}

func (p *BinanceProvider) fetchRatios(ctx context.Context, spanName, path, symbol, period string, limit int) ([]domain.LongShortRatio, error) {
	ctx, span := p.tracer.Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol), attribute.String("period", period))

	if period == "" {
		period = "1h"
	}
	if limit <= 0 {
		limit = 1
	}
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("period", period)
	q.Set("limit", strconv.Itoa(limit))

	rows, err := getJSON[[]binanceLongShortRow](ctx, p.fetch, nil, p.baseURL+path+"?"+q.Encode(), binanceTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s for %s: %w", path, symbol, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s for %s: %w", path, symbol, ErrNoData)
	}

	out := make([]domain.LongShortRatio, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain(symbol))
	}
	return out, nil
}

func (r binanceLongShortRow) toDomain(fallbackSymbol string) domain.LongShortRatio {
	symbol := r.Symbol
	if symbol == "" {
		symbol = fallbackSymbol
	}
	return domain.LongShortRatio{
		Symbol:            symbol,
		LongAccount:       parseFloatOr(r.LongAccount, defaultAccountShare),
		LongAccountRatio:  parseFloatOr(r.LongAccountRatio, defaultRatio),
		ShortAccount:      parseFloatOr(r.ShortAccount, defaultAccountShare),
		ShortAccountRatio: parseFloatOr(r.ShortAccountRatio, defaultRatio),
		Ratio:             parseFloatOr(r.LongShortRatio, defaultRatio),
		Timestamp:         unixTime(r.Timestamp),
	}
}

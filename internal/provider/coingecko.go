package provider

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"

	coingeckoDetailTTL   = time.Minute
	coingeckoHistoryTTL  = 24 * time.Hour
	coingeckoLongTermTTL = 12 * time.Hour
)

// CoinGeckoProvider reads spot, historical and long-range prices from the
// CoinGecko free API.
type CoinGeckoProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider limited to the free tier's budget
// of roughly eight calls per minute.
func NewCoinGeckoProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, coingeckoBaseURL),
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

type coingeckoDetail struct {
	ID          string `json:"id"`
	LastUpdated string `json:"last_updated"`
	MarketData  struct {
		CurrentPrice            map[string]float64 `json:"current_price"`
		PriceChangePercentage24 float64            `json:"price_change_percentage_24h"`
		ATH                     map[string]float64 `json:"ath"`
		ATHChangePercentage     map[string]float64 `json:"ath_change_percentage"`
		CirculatingSupply       float64            `json:"circulating_supply"`
		MarketCap               map[string]float64 `json:"market_cap"`
		TotalVolume             map[string]float64 `json:"total_volume"`
	} `json:"market_data"`
}

// FetchDetail returns the spot view of coinID.
func (p *CoinGeckoProvider) FetchDetail(ctx context.Context, coinID string) (domain.CoinDetail, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-detail")
	defer span.End()
	span.SetAttributes(attribute.String("coin.id", coinID))

	u := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false&sparkline=false",
		p.baseURL, url.PathEscape(coinID))
	raw, err := getJSON[coingeckoDetail](ctx, p.fetch, p.limiter, u, coingeckoDetailTTL)
	if err != nil {
		return domain.CoinDetail{}, fmt.Errorf("fetch detail for %s: %w", coinID, err)
	}

	price, ok := raw.MarketData.CurrentPrice["usd"]
	if !ok || price <= 0 {
		return domain.CoinDetail{}, fmt.Errorf("detail for %s has no usd price: %w", coinID, ErrNoData)
	}
	updated, _ := time.Parse(time.RFC3339, raw.LastUpdated)

	return domain.CoinDetail{
		ID:                raw.ID,
		PriceUSD:          price,
		Change24hPct:      raw.MarketData.PriceChangePercentage24,
		ATHUSD:            raw.MarketData.ATH["usd"],
		ATHChangePct:      raw.MarketData.ATHChangePercentage["usd"],
		CirculatingSupply: raw.MarketData.CirculatingSupply,
		MarketCapUSD:      raw.MarketData.MarketCap["usd"],
		Volume24hUSD:      raw.MarketData.TotalVolume["usd"],
		LastUpdated:       updated.UTC(),
	}, nil
}

// FetchHistoricalPrice returns the USD price of coinID on the given day.
func (p *CoinGeckoProvider) FetchHistoricalPrice(ctx context.Context, coinID string, date time.Time) (float64, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-history")
	defer span.End()

	day := date.UTC().Format("02-01-2006")
	span.SetAttributes(attribute.String("coin.id", coinID), attribute.String("date", day))

	u := fmt.Sprintf("%s/coins/%s/history?date=%s&localization=false", p.baseURL, url.PathEscape(coinID), day)
	raw, err := getJSON[coingeckoDetail](ctx, p.fetch, p.limiter, u, coingeckoHistoryTTL)
	if err != nil {
		return 0, fmt.Errorf("fetch history for %s on %s: %w", coinID, day, err)
	}
	price, ok := raw.MarketData.CurrentPrice["usd"]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("history for %s on %s: %w", coinID, day, ErrNoData)
	}
	return price, nil
}

// FetchSimplePrice returns USD prices keyed by coin id.
func (p *CoinGeckoProvider) FetchSimplePrice(ctx context.Context, ids ...string) (map[string]float64, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-simple-price")
	defer span.End()

	if len(ids) == 0 {
		return nil, fmt.Errorf("simple price: no ids: %w", ErrNoData)
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	// Response shape: {"bitcoin": {"usd": 97000}, ...}
	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", p.baseURL, url.QueryEscape(strings.Join(sorted, ",")))
	raw, err := getJSON[map[string]map[string]float64](ctx, p.fetch, p.limiter, u, coingeckoDetailTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch simple price: %w", err)
	}

	out := make(map[string]float64, len(raw))
	for id, quote := range raw {
		if v, ok := quote["usd"]; ok && v > 0 {
			out[id] = v
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("simple price for %v: %w", ids, ErrNoData)
	}
	return out, nil
}

// PricePoint is one sample of a long-range series.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// FetchLongTermPrices returns the full daily history of coinID, oldest first.
// It backs lookbacks beyond the one year the history endpoint serves.
func (p *CoinGeckoProvider) FetchLongTermPrices(ctx context.Context, coinID string) ([]PricePoint, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-long-term")
	defer span.End()

	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=max&interval=daily", p.baseURL, url.PathEscape(coinID))
	raw, err := getJSON[struct {
		Prices [][]float64 `json:"prices"`
	}](ctx, p.fetch, p.limiter, u, coingeckoLongTermTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch long term prices for %s: %w", coinID, err)
	}

	points := make([]PricePoint, 0, len(raw.Prices))
	for _, pt := range raw.Prices {
		if len(pt) < 2 || pt[1] <= 0 {
			continue
		}
		points = append(points, PricePoint{Time: time.UnixMilli(int64(pt[0])).UTC(), Price: pt[1]})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("long term prices for %s: %w", coinID, ErrNoData)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points, nil
}

// NearestPrice returns the sample closest to target. Points must be sorted.
func NearestPrice(points []PricePoint, target time.Time) (PricePoint, bool) {
	if len(points) == 0 {
		return PricePoint{}, false
	}
	i := sort.Search(len(points), func(i int) bool { return !points[i].Time.Before(target) })
	switch {
	case i == 0:
		return points[0], true
	case i == len(points):
		return points[len(points)-1], true
	}
	before, after := points[i-1], points[i]
	if target.Sub(before.Time) <= after.Time.Sub(target) {
		return before, true
	}
	return after, true
}

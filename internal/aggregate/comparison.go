package aggregate

import (
	"context"
	"errors"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/provider"

	"golang.org/x/sync/errgroup"
)

// DefaultAssets are compared against each other over every period.
var DefaultAssets = []domain.Asset{
	{Symbol: "BTC-USD", Name: "Bitcoin"},
	{Symbol: "GC=F", Name: "Gold"},
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "TLT", Name: "20+ Year Treasury Bonds"},
	{Symbol: "VNQ", Name: "Real Estate"},
}

// ComparisonService computes per-period returns for a fixed set of assets.
type ComparisonService struct {
	base
	charts ChartSource
	assets []domain.Asset
}

func NewComparisonService(charts ChartSource, assets []domain.Asset, opts Options) *ComparisonService {
	if len(assets) == 0 {
		assets = DefaultAssets
	}
	return &ComparisonService{base: newBase("comparison", opts), charts: charts, assets: assets}
}

type assetSeries struct {
	price  float64
	points map[domain.Period]domain.TimeSeriesPoint
}

func (s *ComparisonService) Refresh(ctx context.Context) domain.AssetComparisonCollection {
	ctx, span, t := s.start(ctx)
	defer span.End()
	now := s.now()

	shortTerm := []domain.Period{domain.Period1M, domain.Period1Y}
	longTerm := []domain.Period{domain.Period4Y, domain.Period10Y}

	recent := newResults[string, assetSeries]()
	history := newResults[string, assetSeries]()

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range s.assets {
		g.Go(func() error {
			c, err := call(gctx, &s.base, func(ctx context.Context) (provider.Chart, error) {
				return s.charts.FetchChart(ctx, a.Symbol, "1y", "1d")
			})
			if err != nil {
				recent.fail(a.Symbol, err)
				return nil
			}
			recent.set(a.Symbol, assetSeries{price: c.Quote.Price, points: provider.ClosestPoints(c, shortTerm, now)})
			return nil
		})
		g.Go(func() error {
			c, err := call(gctx, &s.base, func(ctx context.Context) (provider.Chart, error) {
				return s.charts.FetchLongTerm(ctx, a.Symbol)
			})
			if err != nil {
				history.fail(a.Symbol, err)
				return nil
			}
			history.set(a.Symbol, assetSeries{price: c.Quote.Price, points: provider.ClosestPoints(c, longTerm, now)})
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.AssetComparison, 0, len(s.assets))
	for _, a := range s.assets {
		short, shortErr := recent.get(a.Symbol)
		long, longErr := history.get(a.Symbol)

		cmp := domain.AssetComparison{Asset: a}
		switch {
		case shortErr == nil && short.price > 0:
			t.live()
			cmp.CurrentPrice = domain.Live(short.price)
		case longErr == nil && long.price > 0:
			t.live()
			cmp.CurrentPrice = domain.Live(long.price)
		default:
			t.fallback(a.Symbol+"/price", errors.Join(shortErr, longErr))
			p, _ := s.tables.AssetPrice(a.Symbol)
			cmp.CurrentPrice = domain.Fallback(p)
		}
		price := cmp.CurrentPrice.Value

		for _, p := range domain.Periods {
			series, err := short, shortErr
			if p.LongTerm() {
				series, err = long, longErr
			}
			pt, ok := series.points[p]
			if err == nil && !ok {
				err = provider.ErrNoData
			}
			if p.LongTerm() && ok && absDuration(pt.AsOf.Sub(p.Lookback(now))) > maxLongTermDrift {
				ok, err = false, provider.ErrNoData
			}
			if err == nil && ok {
				t.live()
				cmp.Periods = append(cmp.Periods, domain.Live(periodReturn(pt, price)))
				continue
			}
			t.fallback(a.Symbol+"/"+string(p), err)
			cmp.Periods = append(cmp.Periods, domain.Fallback(s.fallbackReturn(a.Symbol, p, price, now)))
		}
		out = append(out, cmp)
	}

	return domain.AssetComparisonCollection{Meta: t.meta(span, now), Assets: out}
}

// fallbackReturn uses the asset's static return. An asset with no static
// entry gets a flat, estimated return.
func (s *ComparisonService) fallbackReturn(symbol string, p domain.Period, price float64, now time.Time) domain.PeriodReturn {
	if pr, ok := s.tables.AssetReturn(symbol, p, now, price); ok {
		return pr
	}
	pt := domain.TimeSeriesPoint{Period: p, Price: price, AsOf: p.Lookback(now), Estimated: true}
	return periodReturn(pt, price)
}

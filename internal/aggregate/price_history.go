package aggregate

import (
	"context"
	"time"

	"btcpulse/internal/derive"
	"btcpulse/internal/domain"
	"btcpulse/internal/provider"

	"golang.org/x/sync/errgroup"
)

const (
	bitcoinID = "bitcoin"

	// A long-range sample further than this from its target date is treated
	// as missing, e.g. when the provider truncates history.
	maxLongTermDrift = 45 * 24 * time.Hour
)

// PriceHistoryService resolves the BTC spot price and its value at each
// lookback period.
type PriceHistoryService struct {
	base
	coins CoinSource
}

func NewPriceHistoryService(coins CoinSource, opts Options) *PriceHistoryService {
	return &PriceHistoryService{base: newBase("price_history", opts), coins: coins}
}

func (s *PriceHistoryService) Refresh(ctx context.Context) domain.PriceHistory {
	ctx, span, t := s.start(ctx)
	defer span.End()
	now := s.now()

	// Returns are relative to the current price, so it resolves first.
	var current domain.Field[domain.CoinDetail]
	detail, err := call(ctx, &s.base, func(ctx context.Context) (domain.CoinDetail, error) {
		return s.coins.FetchDetail(ctx, bitcoinID)
	})
	if err != nil {
		t.fallback("current", err)
		current = domain.Fallback(domain.CoinDetail{ID: bitcoinID, PriceUSD: s.tables.BTCPrice(), LastUpdated: now})
	} else {
		t.live()
		current = domain.Live(detail)
	}
	price := current.Value.PriceUSD

	res := newResults[domain.Period, domain.TimeSeriesPoint]()
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range domain.Periods {
		if p.LongTerm() {
			continue
		}
		g.Go(func() error {
			at := p.Lookback(now)
			v, err := call(gctx, &s.base, func(ctx context.Context) (float64, error) {
				return s.coins.FetchHistoricalPrice(ctx, bitcoinID, at)
			})
			if err == nil {
				res.set(p, domain.TimeSeriesPoint{Period: p, Price: v, AsOf: at})
			} else {
				res.fail(p, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		series, err := call(gctx, &s.base, func(ctx context.Context) ([]provider.PricePoint, error) {
			return s.coins.FetchLongTermPrices(ctx, bitcoinID)
		})
		for _, p := range domain.Periods {
			if !p.LongTerm() {
				continue
			}
			if err != nil {
				res.fail(p, err)
				continue
			}
			target := p.Lookback(now)
			pt, ok := provider.NearestPrice(series, target)
			if !ok || absDuration(pt.Time.Sub(target)) > maxLongTermDrift {
				res.fail(p, provider.ErrNoData)
				continue
			}
			res.set(p, domain.TimeSeriesPoint{Period: p, Price: pt.Price, AsOf: pt.Time})
		}
		return nil
	})
	_ = g.Wait()

	history := make([]domain.Field[domain.PeriodReturn], 0, len(domain.Periods))
	for _, p := range domain.Periods {
		pt, err := res.get(p)
		if err != nil {
			t.fallback(string(p), err)
			pt = s.tables.HistoricalPoint(p, now, price)
			history = append(history, domain.Fallback(periodReturn(pt, price)))
			continue
		}
		t.live()
		history = append(history, domain.Live(periodReturn(pt, price)))
	}

	return domain.PriceHistory{
		Meta:    t.meta(span, now),
		Current: current,
		History: history,
	}
}

func periodReturn(pt domain.TimeSeriesPoint, current float64) domain.PeriodReturn {
	return domain.PeriodReturn{Point: pt, Return: derive.Returns(pt.Price, current, pt.Period.Years())}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

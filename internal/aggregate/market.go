package aggregate

import (
	"context"
	"errors"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/provider"

	"golang.org/x/sync/errgroup"
)

// DefaultETFs are the US spot bitcoin ETFs in the summary.
var DefaultETFs = []domain.Asset{
	{Symbol: "IBIT", Name: "iShares Bitcoin Trust"},
	{Symbol: "FBTC", Name: "Fidelity Wise Origin Bitcoin Fund"},
	{Symbol: "GBTC", Name: "Grayscale Bitcoin Trust"},
	{Symbol: "ARKB", Name: "ARK 21Shares Bitcoin ETF"},
	{Symbol: "BITB", Name: "Bitwise Bitcoin ETF"},
}

const (
	positioningSymbol = "BTCUSDT"
	positioningPeriod = "1h"
	headlineLimit     = 10
)

type MarketSources struct {
	Charts      ChartSource
	Positioning PositioningSource
	Sentiment   SentimentSource
	// News sources are tried in order until one returns headlines.
	News []HeadlineSource
}

// MarketService summarises ETF prices, exchange positioning, sentiment and
// news.
type MarketService struct {
	base
	src  MarketSources
	etfs []domain.Asset
}

func NewMarketService(src MarketSources, etfs []domain.Asset, opts Options) *MarketService {
	if len(etfs) == 0 {
		etfs = DefaultETFs
	}
	return &MarketService{base: newBase("market", opts), src: src, etfs: etfs}
}

func (s *MarketService) Refresh(ctx context.Context) domain.MarketSummary {
	ctx, span, t := s.start(ctx)
	defer span.End()
	now := s.now()

	quotes := newResults[string, domain.Quote]()
	var (
		global, top domain.Field[domain.LongShortRatio]
		sentiment   domain.Field[domain.SentimentReading]
		headlines   domain.Field[[]domain.Headline]
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, etf := range s.etfs {
		g.Go(func() error {
			c, err := call(gctx, &s.base, func(ctx context.Context) (provider.Chart, error) {
				return s.src.Charts.FetchChart(ctx, etf.Symbol, "5d", "1d")
			})
			if err == nil && c.Quote.Price <= 0 {
				err = provider.ErrNoData
			}
			if err != nil {
				quotes.fail(etf.Symbol, err)
				return nil
			}
			q := c.Quote
			q.Symbol = etf.Symbol
			if q.Name == "" {
				q.Name = etf.Name
			}
			quotes.set(etf.Symbol, q)
			return nil
		})
	}
	g.Go(func() error {
		global = s.positioning(gctx, t, "global_long_short", s.src.Positioning.FetchGlobalLongShort, now)
		return nil
	})
	g.Go(func() error {
		top = s.positioning(gctx, t, "top_trader_long_short", s.src.Positioning.FetchTopTraderLongShort, now)
		return nil
	})
	g.Go(func() error {
		v, err := call(gctx, &s.base, s.src.Sentiment.FetchLatest)
		if err != nil {
			t.fallback("sentiment", err)
			sentiment = domain.Fallback(s.tables.Sentiment(now))
			return nil
		}
		t.live()
		sentiment = domain.Live(v)
		return nil
	})
	g.Go(func() error {
		v, err := s.headlines(gctx)
		if err != nil {
			t.fallback("headlines", err)
			headlines = domain.Fallback([]domain.Headline{})
			return nil
		}
		t.live()
		headlines = domain.Live(v)
		return nil
	})
	_ = g.Wait()

	etfs := make([]domain.Field[domain.Quote], 0, len(s.etfs))
	for _, etf := range s.etfs {
		q, err := quotes.get(etf.Symbol)
		if err == nil {
			t.live()
			etfs = append(etfs, domain.Live(q))
			continue
		}
		t.fallback(etf.Symbol, err)
		fb, ok := s.tables.ETFQuote(etf.Symbol)
		if !ok {
			fb = domain.Quote{Symbol: etf.Symbol, Name: etf.Name}
		}
		etfs = append(etfs, domain.Fallback(fb))
	}

	return domain.MarketSummary{
		Meta:               t.meta(span, now),
		ETFs:               etfs,
		GlobalLongShort:    global,
		TopTraderLongShort: top,
		Sentiment:          sentiment,
		Headlines:          headlines,
	}
}

type ratioFetch func(ctx context.Context, symbol, period string, limit int) ([]domain.LongShortRatio, error)

func (s *MarketService) positioning(ctx context.Context, t *tally, key string, fetch ratioFetch, now time.Time) domain.Field[domain.LongShortRatio] {
	rows, err := call(ctx, &s.base, func(ctx context.Context) ([]domain.LongShortRatio, error) {
		return fetch(ctx, positioningSymbol, positioningPeriod, 1)
	})
	if err == nil && len(rows) == 0 {
		err = provider.ErrNoData
	}
	if err != nil {
		t.fallback(key, err)
		return domain.Fallback(s.tables.LongShort(positioningSymbol, now))
	}
	t.live()
	return domain.Live(rows[len(rows)-1])
}

func (s *MarketService) headlines(ctx context.Context) ([]domain.Headline, error) {
	var errs []error
	for _, src := range s.src.News {
		items, err := call(ctx, &s.base, func(ctx context.Context) ([]domain.Headline, error) {
			return src.FetchHeadlines(ctx, headlineLimit)
		})
		if err == nil && len(items) > 0 {
			return items, nil
		}
		if err == nil {
			err = provider.ErrNoData
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, provider.ErrNoData
	}
	return nil, errors.Join(errs...)
}

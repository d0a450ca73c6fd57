package aggregate

import (
	"context"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/provider"
)

// The orchestrators depend on these narrow views of the provider adapters so
// tests can substitute fakes.

type CoinSource interface {
	FetchDetail(ctx context.Context, coinID string) (domain.CoinDetail, error)
	FetchHistoricalPrice(ctx context.Context, coinID string, date time.Time) (float64, error)
	FetchLongTermPrices(ctx context.Context, coinID string) ([]provider.PricePoint, error)
}

// PriceReader resolves spot USD prices by coin id.
type PriceReader interface {
	FetchSimplePrice(ctx context.Context, ids ...string) (map[string]float64, error)
}

type ChartSource interface {
	FetchChart(ctx context.Context, symbol, rng, interval string) (provider.Chart, error)
	FetchLongTerm(ctx context.Context, symbol string) (provider.Chart, error)
}

type InflationSource interface {
	FetchInflation(ctx context.Context, iso3 string, year int) (domain.CountryInflation, error)
}

type NetworkSource interface {
	FetchDifficulty(ctx context.Context) (domain.DifficultyAdjustment, error)
	FetchHashrate(ctx context.Context) (domain.NetworkHashrate, error)
}

type PositioningSource interface {
	FetchGlobalLongShort(ctx context.Context, symbol, period string, limit int) ([]domain.LongShortRatio, error)
	FetchTopTraderLongShort(ctx context.Context, symbol, period string, limit int) ([]domain.LongShortRatio, error)
}

type SentimentSource interface {
	FetchLatest(ctx context.Context) (domain.SentimentReading, error)
}

type HeadlineSource interface {
	FetchHeadlines(ctx context.Context, limit int) ([]domain.Headline, error)
}

type DebtSource interface {
	FetchDebt(ctx context.Context) (domain.DebtSnapshot, error)
}

// FeedHeadlines adapts an RSS feed to HeadlineSource.
type FeedHeadlines struct {
	RSS *provider.RSSProvider
	URL string
}

func (f FeedHeadlines) FetchHeadlines(ctx context.Context, limit int) ([]domain.Headline, error) {
	return f.RSS.FetchHeadlines(ctx, f.URL, limit)
}

package aggregate

import (
	"context"
	"sync"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"
	"btcpulse/internal/provider"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		RetryDelay: time.Millisecond,
		Now:        func() time.Time { return testNow },
	}
}

var (
	errUpstream    = &fetch.Error{Kind: fetch.ErrServerError, URL: "http://upstream", StatusCode: 503}
	errRateLimited = &fetch.Error{Kind: fetch.ErrRateLimited, URL: "http://upstream", StatusCode: 429}
)

type counter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *counter) hit(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[key]++
	return c.calls[key]
}

func (c *counter) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[key]
}

func (c *counter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func chartAt(price float64, samples map[time.Time]float64) provider.Chart {
	c := provider.Chart{Quote: domain.Quote{Price: price, PreviousClose: price}}
	for ts, v := range samples {
		v := v
		c.Timestamps = append(c.Timestamps, ts)
		c.Closes = append(c.Closes, &v)
	}
	return c
}

type fakeCharts struct {
	counter
	recent  map[string]provider.Chart
	long    map[string]provider.Chart
	failing map[string]bool
}

func (f *fakeCharts) FetchChart(_ context.Context, symbol, _, _ string) (provider.Chart, error) {
	f.hit("chart:" + symbol)
	if f.failing[symbol] {
		return provider.Chart{}, errUpstream
	}
	c, ok := f.recent[symbol]
	if !ok {
		return provider.Chart{}, provider.ErrNoData
	}
	return c, nil
}

func (f *fakeCharts) FetchLongTerm(_ context.Context, symbol string) (provider.Chart, error) {
	f.hit("long:" + symbol)
	if f.failing[symbol] {
		return provider.Chart{}, errUpstream
	}
	c, ok := f.long[symbol]
	if !ok {
		return provider.Chart{}, provider.ErrNoData
	}
	return c, nil
}

type fakeCoins struct {
	counter
	detail    domain.CoinDetail
	detailErr error
	history   map[domain.Period]float64
	longTerm  []provider.PricePoint
	longErr   error
	mu         sync.Mutex
	detailDone bool
	// orderOK records whether the detail call had finished when a
	// historical lookup ran.
	orderOK bool
}

func (f *fakeCoins) FetchDetail(context.Context, string) (domain.CoinDetail, error) {
	f.hit("detail")
	f.mu.Lock()
	f.detailDone = true
	f.mu.Unlock()
	return f.detail, f.detailErr
}

func (f *fakeCoins) FetchHistoricalPrice(_ context.Context, _ string, date time.Time) (float64, error) {
	f.hit("history")
	f.mu.Lock()
	f.orderOK = f.detailDone
	f.mu.Unlock()
	for p, v := range f.history {
		if p.Lookback(testNow).Equal(date) {
			return v, nil
		}
	}
	return 0, errUpstream
}

func (f *fakeCoins) FetchLongTermPrices(context.Context, string) ([]provider.PricePoint, error) {
	f.hit("long")
	return f.longTerm, f.longErr
}

type fakeInflation struct {
	counter
	rates   map[string]float64
	mu      sync.Mutex
	started []time.Time
}

func (f *fakeInflation) FetchInflation(_ context.Context, iso3 string, year int) (domain.CountryInflation, error) {
	f.hit(iso3)
	f.mu.Lock()
	f.started = append(f.started, time.Now())
	f.mu.Unlock()
	r, ok := f.rates[iso3]
	if !ok {
		return domain.CountryInflation{}, errUpstream
	}
	return domain.CountryInflation{ISO3: iso3, Country: iso3 + " land", Year: year, RatePct: r}, nil
}

type fakeNetwork struct {
	hashrate    domain.NetworkHashrate
	hashrateErr error
	difficulty  domain.DifficultyAdjustment
	diffErr     error
}

func (f *fakeNetwork) FetchHashrate(context.Context) (domain.NetworkHashrate, error) {
	return f.hashrate, f.hashrateErr
}

func (f *fakeNetwork) FetchDifficulty(context.Context) (domain.DifficultyAdjustment, error) {
	return f.difficulty, f.diffErr
}

type fakePrices struct {
	counter
	price float64
	errs  []error
}

// FetchSimplePrice fails with errs in order, then succeeds.
func (f *fakePrices) FetchSimplePrice(context.Context, ...string) (map[string]float64, error) {
	n := f.hit("price")
	if n <= len(f.errs) {
		return nil, f.errs[n-1]
	}
	return map[string]float64{"bitcoin": f.price}, nil
}

type fakePositioning struct {
	global, top []domain.LongShortRatio
	err         error
}

func (f *fakePositioning) FetchGlobalLongShort(context.Context, string, string, int) ([]domain.LongShortRatio, error) {
	return f.global, f.err
}

func (f *fakePositioning) FetchTopTraderLongShort(context.Context, string, string, int) ([]domain.LongShortRatio, error) {
	return f.top, f.err
}

type fakeSentiment struct {
	reading domain.SentimentReading
	err     error
}

func (f *fakeSentiment) FetchLatest(context.Context) (domain.SentimentReading, error) {
	return f.reading, f.err
}

type fakeHeadlines struct {
	items []domain.Headline
	err   error
}

func (f fakeHeadlines) FetchHeadlines(context.Context, int) ([]domain.Headline, error) {
	return f.items, f.err
}

type fakeDebt struct {
	snap domain.DebtSnapshot
	err  error
}

func (f fakeDebt) FetchDebt(context.Context) (domain.DebtSnapshot, error) {
	return f.snap, f.err
}

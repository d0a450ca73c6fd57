package aggregate

import (
	"context"
	"slices"
	"sync"
	"time"

	"btcpulse/internal/derive"
	"btcpulse/internal/domain"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultInflationWindow     = 7 * 24 * time.Hour
	DefaultPurchasingPowerBase = 2000
)

// DefaultCountries are the ISO3 codes tracked by the inflation view.
var DefaultCountries = []string{
	"USA", "CAN", "MEX", "BRA", "ARG", "GBR", "DEU", "FRA", "ITA",
	"ESP", "TUR", "RUS", "IND", "CHN", "JPN", "ZAF", "NGA",
}

type InflationOptions struct {
	Countries []string
	// Window is how long a set of results is served without touching the
	// network.
	Window time.Duration
	// DispatchDelay spaces out the per-country requests to one host. Zero
	// starts them all at once.
	DispatchDelay time.Duration
	// BaseYear anchors the US purchasing power figure.
	BaseYear int
}

// InflationService collects annual CPI inflation per country and the US
// dollar's purchasing power since a base year.
type InflationService struct {
	base
	source InflationSource
	opts   InflationOptions

	mu       sync.Mutex
	cached   *domain.InflationCollection
	cachedAt time.Time
}

func NewInflationService(source InflationSource, iopts InflationOptions, opts Options) *InflationService {
	if len(iopts.Countries) == 0 {
		iopts.Countries = DefaultCountries
	}
	if iopts.Window <= 0 {
		iopts.Window = DefaultInflationWindow
	}
	if iopts.DispatchDelay < 0 {
		iopts.DispatchDelay = 0
	}
	if iopts.BaseYear == 0 {
		iopts.BaseYear = DefaultPurchasingPowerBase
	}
	return &InflationService{base: newBase("inflation", opts), source: source, opts: iopts}
}

func (s *InflationService) Refresh(ctx context.Context) domain.InflationCollection {
	now := s.now()
	if c, ok := s.fresh(now); ok {
		s.recorder.ObserveRefresh(s.name, string(domain.SourceCached), 0)
		return c
	}

	ctx, span, t := s.start(ctx)
	defer span.End()

	// Most countries publish the prior year's figure during the current year.
	year := now.Year() - 1
	res := newResults[string, domain.CountryInflation]()

	g, gctx := errgroup.WithContext(ctx)
	for i, iso3 := range s.opts.Countries {
		if i > 0 && s.opts.DispatchDelay > 0 {
			if !sleepCtx(gctx, s.opts.DispatchDelay) {
				// Cancelled: leave the rest to the fallback table.
				break
			}
		}
		g.Go(func() error {
			v, err := call(gctx, &s.base, func(ctx context.Context) (domain.CountryInflation, error) {
				return s.source.FetchInflation(ctx, iso3, year)
			})
			if err != nil {
				res.fail(iso3, err)
				return nil
			}
			res.set(iso3, v)
			return nil
		})
	}
	_ = g.Wait()

	countries := make([]domain.Field[domain.CountryInflation], 0, len(s.opts.Countries))
	live := 0
	for _, iso3 := range s.opts.Countries {
		v, err := res.get(iso3)
		if err == nil {
			live++
			t.live()
			if v.Country == "" {
				if fb, ok := s.tables.CountryInflation(iso3); ok {
					v.Country = fb.Country
				}
			}
			countries = append(countries, domain.Live(v))
			continue
		}
		t.fallback(iso3, err)
		fb, ok := s.tables.CountryInflation(iso3)
		if !ok {
			fb = domain.CountryInflation{ISO3: iso3}
		}
		countries = append(countries, domain.Fallback(fb))
	}

	c := domain.InflationCollection{
		Meta:            t.meta(span, now),
		Countries:       countries,
		PurchasingPower: s.purchasingPower(now.Year()),
	}
	// Only a result with live data is worth holding for the whole window.
	if live > 0 {
		s.mu.Lock()
		stored := c
		stored.Countries = slices.Clone(countries)
		s.cached, s.cachedAt = &stored, now
		s.mu.Unlock()
	}
	return c
}

// Invalidate drops the held result so the next Refresh goes to the network.
func (s *InflationService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *InflationService) fresh(now time.Time) (domain.InflationCollection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil || now.Sub(s.cachedAt) >= s.opts.Window {
		return domain.InflationCollection{}, false
	}
	c := *s.cached
	c.Countries = slices.Clone(s.cached.Countries)
	c.Source = domain.SourceCached
	return c, true
}

func (s *InflationService) purchasingPower(currentYear int) domain.PurchasingPower {
	cpi := s.tables.USCPI
	pp := domain.PurchasingPower{
		BaseYear:    s.opts.BaseYear,
		CurrentYear: currentYear,
		BaseCPI:     cpi.At(s.opts.BaseYear),
		CurrentCPI:  cpi.At(currentYear),
	}
	pp.Remaining = derive.PurchasingPower(pp.BaseCPI, pp.CurrentCPI)
	pp.LossPct = (1 - pp.Remaining) * 100
	return pp
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package aggregate

import (
	"context"
	"errors"
	"time"

	"btcpulse/internal/derive"
	"btcpulse/internal/domain"

	"golang.org/x/sync/errgroup"
)

var errSingleRecord = errors.New("only one debt record; growth rate unmeasured")

// DebtService tracks US public debt and expresses it per person and in BTC.
type DebtService struct {
	base
	debt   DebtSource
	prices PriceReader
}

func NewDebtService(debt DebtSource, prices PriceReader, opts Options) *DebtService {
	return &DebtService{base: newBase("debt", opts), debt: debt, prices: prices}
}

func (s *DebtService) Refresh(ctx context.Context) domain.DebtCollection {
	ctx, span, t := s.start(ctx)
	defer span.End()
	now := s.now()

	var (
		snapshot domain.Field[domain.DebtSnapshot]
		price    domain.Field[float64]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := call(gctx, &s.base, s.debt.FetchDebt)
		if err != nil {
			t.fallback("debt", err)
			snapshot = domain.Fallback(s.tables.Debt())
			return nil
		}
		if v.DailyRate == 0 {
			// A single record gives no growth rate; borrow the static one.
			v.DailyRate = s.tables.Debt().DailyRate
			v.RateEstimated = true
			t.fallback("debt_rate", errSingleRecord)
		}
		t.live()
		snapshot = domain.Live(v)
		return nil
	})
	g.Go(func() error {
		v, err := spotPrice(gctx, &s.base, s.prices)
		if err != nil {
			t.fallback("btc_price", err)
			price = domain.Fallback(s.tables.BTCPrice())
			return nil
		}
		t.live()
		price = domain.Live(v)
		return nil
	})
	_ = g.Wait()

	c := domain.DebtCollection{
		Meta:          t.meta(span, now),
		Snapshot:      snapshot,
		BTCPrice:      price,
		PerSecondRate: derive.PerSecond(snapshot.Value.DailyRate),
		Population:    s.tables.Population(),
	}
	c.EstimatedTotal = DebtAt(c, now)
	c.PerCapita = derive.PerCapita(c.EstimatedTotal, c.Population)
	c.InBTC = derive.InBTC(c.EstimatedTotal, price.Value)
	return c
}

// DebtAt extrapolates the latest recorded total to t at the measured daily
// rate. Times before the record date return the recorded total.
func DebtAt(c domain.DebtCollection, t time.Time) float64 {
	latest := c.Snapshot.Value.Latest
	elapsed := t.Sub(latest.RecordDate)
	if elapsed < 0 {
		elapsed = 0
	}
	return derive.Extrapolate(latest.TotalDebt, c.Snapshot.Value.DailyRate, elapsed)
}

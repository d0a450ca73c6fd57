package aggregate

import (
	"context"
	"testing"
	"time"

	"btcpulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflationCachesForWindow(t *testing.T) {
	src := &fakeInflation{rates: map[string]float64{"USA": 2.9, "ARG": 117.8, "JPN": 2.7}}
	now := testNow
	opts := testOptions()
	opts.Now = func() time.Time { return now }
	svc := NewInflationService(src, InflationOptions{
		Countries:     []string{"USA", "ARG", "JPN", "NGA"},
		DispatchDelay: time.Millisecond,
	}, opts)

	first := svc.Refresh(context.Background())
	assert.Equal(t, domain.SourceAPI, first.Source)
	assert.Equal(t, 4, src.total())
	require.Len(t, first.Countries, 4)
	assert.Equal(t, domain.StatusLive, first.Countries[0].Status)
	assert.Equal(t, 2025, first.Countries[0].Value.Year)
	assert.Equal(t, domain.StatusFallback, first.Countries[3].Status)
	assert.Equal(t, 24.7, first.Countries[3].Value.RatePct)
	assert.Contains(t, first.Error, "NGA")

	now = now.Add(6 * 24 * time.Hour)
	second := svc.Refresh(context.Background())
	assert.Equal(t, domain.SourceCached, second.Source)
	assert.Equal(t, 4, src.total(), "no network inside the window")
	assert.Equal(t, first.Countries, second.Countries)

	now = now.Add(2 * 24 * time.Hour)
	third := svc.Refresh(context.Background())
	assert.Equal(t, domain.SourceAPI, third.Source)
	assert.Equal(t, 8, src.total())

	svc.Invalidate()
	svc.Refresh(context.Background())
	assert.Equal(t, 12, src.total())
}

func TestInflationSpacesDispatches(t *testing.T) {
	src := &fakeInflation{rates: map[string]float64{"USA": 1, "CAN": 2, "MEX": 3}}
	svc := NewInflationService(src, InflationOptions{
		Countries:     []string{"USA", "CAN", "MEX"},
		DispatchDelay: 20 * time.Millisecond,
	}, testOptions())

	svc.Refresh(context.Background())

	src.mu.Lock()
	defer src.mu.Unlock()
	require.Len(t, src.started, 3)
	first, last := src.started[0], src.started[0]
	for _, ts := range src.started {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	assert.GreaterOrEqual(t, last.Sub(first), 35*time.Millisecond)
}

func TestInflationTotalFailureIsNotHeld(t *testing.T) {
	src := &fakeInflation{}
	svc := NewInflationService(src, InflationOptions{Countries: []string{"USA", "GBR"}, DispatchDelay: 0}, testOptions())

	got := svc.Refresh(context.Background())
	assert.Equal(t, domain.SourceFallback, got.Source)
	assert.Equal(t, "United Kingdom", got.Countries[1].Value.Country)

	svc.Refresh(context.Background())
	assert.Equal(t, 4, src.total(), "fallback-only results are retried on the next refresh")
}

func TestInflationPurchasingPower(t *testing.T) {
	svc := NewInflationService(&fakeInflation{}, InflationOptions{Countries: []string{"USA"}}, testOptions())
	pp := svc.Refresh(context.Background()).PurchasingPower

	assert.Equal(t, 2000, pp.BaseYear)
	assert.Equal(t, 2026, pp.CurrentYear)
	assert.Equal(t, 172.2, pp.BaseCPI)
	assert.Equal(t, 322.0, pp.CurrentCPI, "years past the table clamp to its last entry")
	assert.InDelta(t, 172.2/322.0, pp.Remaining, 1e-12)
	assert.InDelta(t, (1-172.2/322.0)*100, pp.LossPct, 1e-9)
}

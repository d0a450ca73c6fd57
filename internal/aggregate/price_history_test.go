package aggregate

import (
	"context"
	"testing"

	"btcpulse/internal/domain"
	"btcpulse/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceHistoryLive(t *testing.T) {
	coins := &fakeCoins{
		detail: domain.CoinDetail{ID: "bitcoin", PriceUSD: 100000},
		history: map[domain.Period]float64{
			domain.Period1M: 80000,
			domain.Period1Y: 50000,
		},
		longTerm: []provider.PricePoint{
			{Time: domain.Period10Y.Lookback(testNow).AddDate(0, 0, 3), Price: 500},
			{Time: domain.Period4Y.Lookback(testNow).AddDate(0, 0, -2), Price: 25000},
		},
	}
	got := NewPriceHistoryService(coins, testOptions()).Refresh(context.Background())

	assert.Equal(t, domain.SourceAPI, got.Source)
	assert.Empty(t, got.Error)
	assert.True(t, coins.orderOK, "current price must resolve before historical lookups")
	assert.Equal(t, domain.StatusLive, got.Current.Status)

	require.Len(t, got.History, 4)
	wantStart := []float64{80000, 50000, 25000, 500}
	for i, h := range got.History {
		assert.Equal(t, domain.Periods[i], h.Value.Point.Period)
		assert.Equal(t, domain.StatusLive, h.Status)
		assert.Equal(t, wantStart[i], h.Value.Point.Price)
	}
	assert.InDelta(t, 25, got.History[0].Value.Return.PercentageReturn, 1e-9)
	assert.InDelta(t, 200, got.History[3].Value.Return.Multiplier, 1e-9)
	assert.InDelta(t, (100000.0/25000-1)*100, got.History[2].Value.Return.PercentageReturn, 1e-9)
	assert.Equal(t, 1, coins.count("long"), "one long-range query serves both long periods")
}

func TestPriceHistoryFallsBackPerPeriod(t *testing.T) {
	coins := &fakeCoins{
		detail:  domain.CoinDetail{ID: "bitcoin", PriceUSD: 100000},
		history: map[domain.Period]float64{domain.Period1M: 90000},
		// The provider only returned the last year, so 4Y and 10Y drift too far.
		longTerm: []provider.PricePoint{{Time: testNow.AddDate(-1, 0, 0), Price: 60000}},
	}
	got := NewPriceHistoryService(coins, testOptions()).Refresh(context.Background())

	assert.Equal(t, domain.SourceAPI, got.Source)
	assert.Equal(t, domain.StatusLive, got.History[0].Status)
	for _, h := range got.History[1:] {
		assert.Equal(t, domain.StatusFallback, h.Status)
		assert.True(t, h.Value.Point.Estimated)
	}
	// 10 years before June 2026 is June 2016 in the monthly table.
	assert.Equal(t, 673.3, got.History[3].Value.Point.Price)
	assert.Contains(t, got.Error, "10Y")
}

func TestPriceHistoryTotalFailure(t *testing.T) {
	coins := &fakeCoins{detailErr: errUpstream, longErr: errUpstream}
	got := NewPriceHistoryService(coins, testOptions()).Refresh(context.Background())

	assert.Equal(t, domain.SourceFallback, got.Source)
	assert.Equal(t, domain.StatusFallback, got.Current.Status)
	assert.Equal(t, 95000.0, got.Current.Value.PriceUSD)
	require.Len(t, got.History, 4)
	for _, h := range got.History {
		assert.True(t, h.Resolved())
		assert.Positive(t, h.Value.Point.Price)
	}
	assert.NotEmpty(t, got.Error)
}

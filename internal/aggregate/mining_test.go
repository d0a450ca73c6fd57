package aggregate

import (
	"context"
	"testing"

	"btcpulse/internal/domain"
	"btcpulse/internal/mining"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiningRefreshLive(t *testing.T) {
	network := &fakeNetwork{
		hashrate:   domain.NetworkHashrate{HashrateEH: 600, Difficulty: 1e14},
		difficulty: domain.DifficultyAdjustment{ProgressPercent: 50, DifficultyChange: 1.5},
	}
	prices := &fakePrices{price: 70000}
	svc := NewMiningService(network, prices, nil, testOptions())

	got := svc.Refresh(context.Background(), mining.DefaultSettings())

	assert.Equal(t, domain.SourceAPI, got.Source)
	assert.Equal(t, mining.PresetAverage, got.Preset)
	assert.InDelta(t, 56000, got.Calculation.TotalCostPerBTC, 1e-6)
	assert.InDelta(t, 25, got.ProfitMarginPct, 1e-9)
	assert.Equal(t, 1.5, got.Difficulty.Value.DifficultyChange)
}

func TestMiningPartialFailureAndRateLimitRetry(t *testing.T) {
	network := &fakeNetwork{hashrateErr: errUpstream, diffErr: errUpstream}
	prices := &fakePrices{price: 70000, errs: []error{errRateLimited}}
	svc := NewMiningService(network, prices, nil, testOptions())

	got := svc.Refresh(context.Background(), mining.Presets[mining.PresetEfficient])

	assert.Equal(t, domain.SourceAPI, got.Source)
	assert.Equal(t, 2, prices.count("price"))
	assert.Equal(t, domain.StatusLive, got.BTCPrice.Status)
	assert.Equal(t, domain.StatusFallback, got.Hashrate.Status)
	assert.Equal(t, 650.0, got.Hashrate.Value.HashrateEH)
	assert.Equal(t, domain.StatusFallback, got.Difficulty.Status)
	assert.Equal(t, mining.PresetEfficient, got.Preset)
	assert.Positive(t, got.Calculation.TotalCostPerBTC)
}

func TestMiningInvalidSettingsUseDefaults(t *testing.T) {
	svc := NewMiningService(&fakeNetwork{hashrate: domain.NetworkHashrate{HashrateEH: 600}}, &fakePrices{price: 1}, nil, testOptions())

	got := svc.Refresh(context.Background(), domain.MiningSettings{MinerEfficiency: -3})
	assert.Equal(t, mining.DefaultSettings(), got.Settings)
	assert.Contains(t, got.Error, "invalid")
}

func TestMiningStoredSettings(t *testing.T) {
	ctx := context.Background()
	store := mining.NewMemoryStore()
	svc := NewMiningService(&fakeNetwork{hashrate: domain.NetworkHashrate{HashrateEH: 600}}, &fakePrices{price: 1}, store, testOptions())

	require.NoError(t, svc.UpdateSettings(ctx, mining.Presets[mining.PresetExpensive]))
	assert.Error(t, svc.UpdateSettings(ctx, domain.MiningSettings{}))

	got := svc.RefreshStored(ctx)
	assert.Equal(t, mining.PresetExpensive, got.Preset)
	s, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, mining.Presets[mining.PresetExpensive], s)
}

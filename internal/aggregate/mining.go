package aggregate

import (
	"context"
	"fmt"

	"btcpulse/internal/derive"
	"btcpulse/internal/domain"
	"btcpulse/internal/mining"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MiningService models the network's production cost against the spot price.
type MiningService struct {
	base
	network NetworkSource
	prices  PriceReader
	store   mining.SettingsStore
}

func NewMiningService(network NetworkSource, prices PriceReader, store mining.SettingsStore, opts Options) *MiningService {
	if store == nil {
		store = mining.NewMemoryStore()
	}
	return &MiningService{base: newBase("mining", opts), network: network, prices: prices, store: store}
}

// Refresh computes the cost model for settings. Invalid settings are
// replaced by the default profile and reported in Meta.Error.
func (s *MiningService) Refresh(ctx context.Context, settings domain.MiningSettings) domain.MiningData {
	ctx, span, t := s.start(ctx)
	defer span.End()
	now := s.now()

	settingsErr := mining.Validate(settings)
	if settingsErr != nil {
		log.Warn().Err(settingsErr).Msg("mining settings rejected, using defaults")
		settings = mining.DefaultSettings()
	}

	var (
		hashrate   domain.Field[domain.NetworkHashrate]
		difficulty domain.Field[domain.DifficultyAdjustment]
		price      domain.Field[float64]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := call(gctx, &s.base, s.network.FetchHashrate)
		if err != nil {
			t.fallback("hashrate", err)
			hashrate = domain.Fallback(s.tables.Hashrate(now))
			return nil
		}
		t.live()
		hashrate = domain.Live(v)
		return nil
	})
	g.Go(func() error {
		v, err := call(gctx, &s.base, s.network.FetchDifficulty)
		if err != nil {
			t.fallback("difficulty", err)
			difficulty = domain.Fallback(s.tables.Difficulty())
			return nil
		}
		t.live()
		difficulty = domain.Live(v)
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

	calc := derive.MiningCost(hashrate.Value.HashrateEH, settings)
	data := domain.MiningData{
		Meta:            t.meta(span, now),
		Hashrate:        hashrate,
		Difficulty:      difficulty,
		BTCPrice:        price,
		Settings:        settings,
		Preset:          mining.PresetFor(settings),
		Calculation:     calc,
		ProfitMarginPct: derive.ProfitMargin(price.Value, calc.TotalCostPerBTC),
	}
	if settingsErr != nil {
		data.Error = joinNotice(data.Error, "Mining settings were invalid; the average profile is shown.")
	}
	return data
}

// RefreshStored runs Refresh with the persisted settings.
func (s *MiningService) RefreshStored(ctx context.Context) domain.MiningData {
	settings, err := s.store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("load mining settings")
	}
	return s.Refresh(ctx, settings)
}

// Settings returns the persisted settings.
func (s *MiningService) Settings(ctx context.Context) (domain.MiningSettings, error) {
	return s.store.Load(ctx)
}

// UpdateSettings validates and persists settings.
func (s *MiningService) UpdateSettings(ctx context.Context, settings domain.MiningSettings) error {
	if err := s.store.Save(ctx, settings); err != nil {
		return fmt.Errorf("save mining settings: %w", err)
	}
	return nil
}

func spotPrice(ctx context.Context, b *base, prices PriceReader) (float64, error) {
	quotes, err := call(ctx, b, func(ctx context.Context) (map[string]float64, error) {
		return prices.FetchSimplePrice(ctx, bitcoinID)
	})
	if err != nil {
		return 0, err
	}
	v, ok := quotes[bitcoinID]
	if !ok || v <= 0 {
		return 0, fmt.Errorf("no %s price in response: %w", bitcoinID, errMissing)
	}
	return v, nil
}

func joinNotice(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"btcpulse/internal/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Collection kinds.
const (
	KindPriceHistory = "price-history"
	KindComparison   = "comparison"
	KindInflation    = "inflation"
	KindMining       = "mining"
	KindMarket       = "market"
	KindDebt         = "debt"
)

var ErrUnknownKind = errors.New("unknown collection kind")

// Services is the full set of orchestrators.
type Services struct {
	PriceHistory *PriceHistoryService
	Comparison   *ComparisonService
	Inflation    *InflationService
	Mining       *MiningService
	Market       *MarketService
	Debt         *DebtService
}

// Hub owns one Refresher per collection kind.
type Hub struct {
	PriceHistory *Refresher[domain.PriceHistory]
	Comparison   *Refresher[domain.AssetComparisonCollection]
	Inflation    *Refresher[domain.InflationCollection]
	Mining       *Refresher[domain.MiningData]
	Market       *Refresher[domain.MarketSummary]
	Debt         *Refresher[domain.DebtCollection]

	inflation *InflationService
	refresh   map[string]func(context.Context)
	ready     map[string]func() bool
}

func NewHub(s Services) *Hub {
	h := &Hub{
		PriceHistory: NewRefresher(s.PriceHistory.Refresh),
		Comparison:   NewRefresher(s.Comparison.Refresh),
		Inflation:    NewRefresher(s.Inflation.Refresh),
		Mining:       NewRefresher(s.Mining.RefreshStored),
		Market:       NewRefresher(s.Market.Refresh),
		Debt:         NewRefresher(s.Debt.Refresh),
		inflation:    s.Inflation,
	}
	h.refresh = map[string]func(context.Context){
		KindPriceHistory: func(ctx context.Context) { h.PriceHistory.Refresh(ctx) },
		KindComparison:   func(ctx context.Context) { h.Comparison.Refresh(ctx) },
		KindInflation:    func(ctx context.Context) { h.Inflation.Refresh(ctx) },
		KindMining:       func(ctx context.Context) { h.Mining.Refresh(ctx) },
		KindMarket:       func(ctx context.Context) { h.Market.Refresh(ctx) },
		KindDebt:         func(ctx context.Context) { h.Debt.Refresh(ctx) },
	}
	h.ready = map[string]func() bool{
		KindPriceHistory: h.PriceHistory.Ready,
		KindComparison:   h.Comparison.Ready,
		KindInflation:    h.Inflation.Ready,
		KindMining:       h.Mining.Ready,
		KindMarket:       h.Market.Ready,
		KindDebt:         h.Debt.Ready,
	}
	return h
}

// Ready reports, per kind, whether a refresh has published a result.
func (h *Hub) Ready() map[string]bool {
	out := make(map[string]bool, len(h.ready))
	for kind, fn := range h.ready {
		out[kind] = fn()
	}
	return out
}

// Kinds lists the refreshable collection kinds.
func (h *Hub) Kinds() []string {
	kinds := make([]string, 0, len(h.refresh))
	for k := range h.refresh {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// RefreshKind refreshes one collection. force skips the inflation result
// window.
func (h *Hub) RefreshKind(ctx context.Context, kind string, force bool) error {
	fn, ok := h.refresh[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if force && kind == KindInflation && h.inflation != nil {
		h.inflation.Invalidate()
	}
	fn(ctx)
	return nil
}

// RefreshAll refreshes every collection concurrently. Collections are
// independent, so no ordering is imposed between them.
func (h *Hub) RefreshAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range h.Kinds() {
		g.Go(func() error {
			if err := h.RefreshKind(gctx, kind, false); err != nil {
				log.Error().Err(err).Str("kind", kind).Msg("refresh failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}

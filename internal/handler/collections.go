package handler

import (
	"net/http"

	"btcpulse/internal/aggregate"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// serveSnapshot writes the latest published collection. Requests that arrive
// before anything is published wait for the refresh in flight, starting one
// if none is running. That refresh outlives a disconnecting client.
func serveSnapshot[T any](c *gin.Context, h *Handler, kind string, r *aggregate.Refresher[T]) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-"+kind)
	defer span.End()

	v, ok := r.Snapshot()
	span.SetAttributes(attribute.Bool("snapshot.ready", ok))
	if !ok {
		var err error
		if v, err = r.Await(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": kind + " is still loading"})
			return
		}
	}
	c.JSON(http.StatusOK, v)
}

// GetPriceHistory godoc
// @Summary      BTC price history
// @Description  Current BTC price and its value 1 month, 1, 4 and 10 years ago
// @Tags         collections
// @Produce      json
// @Success      200  {object}  domain.PriceHistory
// @Router       /api/price-history [get]
func (h *Handler) GetPriceHistory(c *gin.Context) {
	serveSnapshot(c, h, aggregate.KindPriceHistory, h.hub.PriceHistory)
}

// GetComparison godoc
// @Summary      Cross-asset comparison
// @Description  Price and per-period returns of bitcoin, gold, equities, bonds and real estate
// @Tags         collections
// @Produce      json
// @Success      200  {object}  domain.AssetComparisonCollection
// @Router       /api/comparison [get]
func (h *Handler) GetComparison(c *gin.Context) {
	serveSnapshot(c, h, aggregate.KindComparison, h.hub.Comparison)
}

// GetInflation godoc
// @Summary      Inflation by country
// @Description  Latest annual CPI inflation per country and US dollar purchasing power
// @Tags         collections
// @Produce      json
// @Success      200  {object}  domain.InflationCollection
// @Router       /api/inflation [get]
func (h *Handler) GetInflation(c *gin.Context) {
	serveSnapshot(c, h, aggregate.KindInflation, h.hub.Inflation)
}

// GetMining godoc
// @Summary      Mining economics
// @Description  Network hashrate, difficulty and the modelled cost to mine one BTC
// @Tags         collections
// @Produce      json
// @Success      200  {object}  domain.MiningData
// @Router       /api/mining [get]
func (h *Handler) GetMining(c *gin.Context) {
	serveSnapshot(c, h, aggregate.KindMining, h.hub.Mining)
}

// GetMarket godoc
// @Summary      Market summary
// @Description  Spot ETF quotes, exchange positioning, sentiment and headlines
// @Tags         collections
// @Produce      json
// @Success      200  {object}  domain.MarketSummary
// @Router       /api/market [get]
func (h *Handler) GetMarket(c *gin.Context) {
	serveSnapshot(c, h, aggregate.KindMarket, h.hub.Market)
}

// GetDebt godoc
// @Summary      US public debt
// @Description  Latest Treasury debt figure extrapolated to now, per person and in BTC
// @Tags         collections
// @Produce      json
// @Success      200  {object}  domain.DebtCollection
// @Router       /api/debt [get]
func (h *Handler) GetDebt(c *gin.Context) {
	serveSnapshot(c, h, aggregate.KindDebt, h.hub.Debt)
}

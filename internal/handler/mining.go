package handler

import (
	"context"
	"errors"
	"net/http"

	"btcpulse/internal/aggregate"
	"btcpulse/internal/domain"
	"btcpulse/internal/mining"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetMiningSettings godoc
// @Summary      Current mining settings
// @Tags         mining
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/mining/settings [get]
func (h *Handler) GetMiningSettings(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-mining-settings")
	defer span.End()

	s, err := h.mining.Settings(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s, "preset": mining.PresetFor(s)})
}

// UpdateMiningSettings godoc
// @Summary      Update mining settings
// @Description  Validates and stores the cost model inputs, then recomputes the mining collection
// @Tags         mining
// @Accept       json
// @Produce      json
// @Param        settings  body  domain.MiningSettings  true  "Cost model inputs"
// @Success      200  {object}  domain.MiningData
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/mining/settings [put]
func (h *Handler) UpdateMiningSettings(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.update-mining-settings")
	defer span.End()

	var s domain.MiningSettings
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := h.mining.UpdateSettings(ctx, s); err != nil {
		var verr *mining.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": mining.ErrInvalidSettings.Error(), "fields": verr.Fields})
		case errors.Is(err, mining.ErrInvalidSettings):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("update mining settings")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// New settings must replace whatever is loading with the old ones. If a
	// later refresh supersedes this one, answer with that result instead.
	data, applied := h.hub.Mining.Refresh(context.WithoutCancel(ctx))
	if !applied {
		var err error
		if data, err = h.hub.Mining.Settle(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "mining is still loading"})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// GetMiningPresets godoc
// @Summary      Mining presets
// @Description  Named operator profiles for the cost model
// @Tags         mining
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/mining/presets [get]
func (h *Handler) GetMiningPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": mining.PresetAverage,
		"names":   mining.PresetNames(),
		"presets": mining.Presets,
	})
}

// Refresh godoc
// @Summary      Refresh a collection
// @Description  Runs a refresh now. Use kind "all" to refresh every collection; force skips the inflation result window.
// @Tags         collections
// @Produce      json
// @Param        kind   path   string  true   "Collection kind"
// @Param        force  query  bool    false  "Bypass cached inflation results"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/refresh/{kind} [post]
func (h *Handler) Refresh(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh")
	defer span.End()
	ctx = context.WithoutCancel(ctx)

	kind := c.Param("kind")
	if kind == "all" {
		h.hub.RefreshAll(ctx)
		c.JSON(http.StatusOK, gin.H{"kind": kind, "refreshed": true, "collections": h.hub.Ready()})
		return
	}

	force := c.Query("force") == "true"
	if err := h.hub.RefreshKind(ctx, kind, force); err != nil {
		if errors.Is(err, aggregate.ErrUnknownKind) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kinds": h.hub.Kinds()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "refreshed": true})
}

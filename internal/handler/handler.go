package handler

import (
	"context"

	"btcpulse/internal/aggregate"
	"btcpulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SettingsService reads and persists the mining cost model inputs.
type SettingsService interface {
	Settings(ctx context.Context) (domain.MiningSettings, error)
	UpdateSettings(ctx context.Context, s domain.MiningSettings) error
}

type Handler struct {
	tracer trace.Tracer
	hub    *aggregate.Hub
	mining SettingsService
}

func New(tracer trace.Tracer, hub *aggregate.Hub, mining SettingsService) *Handler {
	return &Handler{
		tracer: tracer,
		hub:    hub,
		mining: mining,
	}
}

// RegisterRoutes mounts the read API. Writes go through APIKeyAuth(adminKey).
func (h *Handler) RegisterRoutes(r *gin.Engine, adminKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/price-history", h.GetPriceHistory)
	api.GET("/comparison", h.GetComparison)
	api.GET("/inflation", h.GetInflation)
	api.GET("/mining", h.GetMining)
	api.GET("/mining/settings", h.GetMiningSettings)
	api.GET("/mining/presets", h.GetMiningPresets)
	api.GET("/market", h.GetMarket)
	api.GET("/debt", h.GetDebt)

	admin := api.Group("", APIKeyAuth(adminKey))
	admin.PUT("/mining/settings", h.UpdateMiningSettings)
	admin.POST("/refresh/:kind", h.Refresh)
}

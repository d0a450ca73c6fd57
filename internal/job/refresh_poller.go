package job

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Refresher is the part of the collection hub the poller drives.
type Refresher interface {
	RefreshAll(ctx context.Context)
	RefreshKind(ctx context.Context, kind string, force bool) error
}

// RefreshPoller keeps every collection warm in the background.
type RefreshPoller struct {
	tracer       trace.Tracer
	hub          Refresher
	pollInterval time.Duration
	// slow kinds are refreshed on their own, longer cadence.
	slow         map[string]time.Duration
}

func NewRefreshPoller(tracer trace.Tracer, hub Refresher, pollInterval time.Duration) *RefreshPoller {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	return &RefreshPoller{
		tracer:       tracer,
		hub:          hub,
		pollInterval: pollInterval,
		slow:         make(map[string]time.Duration),
	}
}

// Every schedules kind on its own interval in addition to the full sweep.
func (p *RefreshPoller) Every(kind string, interval time.Duration) *RefreshPoller {
	if interval <= 0 {
		return p
	}
	p.slow[kind] = interval
	return p
}

// Start runs a full sweep immediately and then on every tick. Blocks until
// ctx is cancelled.
func (p *RefreshPoller) Start(ctx context.Context) {
	log.Info().Dur("interval", p.pollInterval).Msg("refresh poller starting")

	for kind, interval := range p.slow {
		go p.pollLoop(ctx, kind, interval, func(ctx context.Context) {
			if err := p.hub.RefreshKind(ctx, kind, true); err != nil {
				log.Error().Err(err).Str("kind", kind).Msg("scheduled refresh failed")
			}
		})
	}
	p.pollLoop(ctx, "all", p.pollInterval, p.sweep)

	log.Info().Msg("refresh poller stopped")
}

func (p *RefreshPoller) sweep(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "job.refresh-all")
	defer span.End()

	start := time.Now()
	p.hub.RefreshAll(ctx)
	log.Debug().Dur("took", time.Since(start)).Msg("refresh sweep finished")
}

func (p *RefreshPoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	if name == "all" {
		fn(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

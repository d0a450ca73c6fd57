package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the Prometheus collectors for the fetch layer and the
// orchestrators. A nil *Recorder is valid and records nothing.
type Recorder struct {
	cacheLookups     *prometheus.CounterVec
	cacheEntries     prometheus.Gauge
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	refreshDuration  *prometheus.HistogramVec
	refreshes        *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_fetch_cache_lookups_total",
				Help: "Fetch cache lookups by result",
			},
			[]string{"result"}, // hit, miss, stale, corrupt
		),
		cacheEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "btcpulse_fetch_cache_entries",
			Help: "Entries currently held by the fetch cache",
		}),
		upstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_upstream_requests_total",
				Help: "Requests sent to data providers by host and outcome",
			},
			[]string{"host", "outcome"},
		),
		upstreamDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "btcpulse_upstream_request_duration_seconds",
				Help:    "Provider request latency",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"host"},
		),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_fallback_substitutions_total",
				Help: "Sub-fetches replaced by static fallback data",
			},
			[]string{"collection", "key"},
		),
		refreshDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "btcpulse_refresh_duration_seconds",
				Help:    "Orchestrator refresh duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection"},
		),
		refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_refreshes_total",
				Help: "Completed orchestrator refreshes by resulting source",
			},
			[]string{"collection", "source"},
		),
	}
}

func (r *Recorder) CacheLookup(result string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) SetCacheEntries(n int) {
	if r == nil {
		return
	}
	r.cacheEntries.Set(float64(n))
}

func (r *Recorder) ObserveUpstream(host, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(host, outcome).Inc()
	r.upstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (r *Recorder) Fallback(collection, key string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(collection, key).Inc()
}

func (r *Recorder) ObserveRefresh(collection, source string, d time.Duration) {
	if r == nil {
		return
	}
	r.refreshes.WithLabelValues(collection, source).Inc()
	r.refreshDuration.WithLabelValues(collection).Observe(d.Seconds())
}

package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fallback"
	"btcpulse/internal/fetch"
	"btcpulse/internal/metrics"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultRetryDelay = 2 * time.Second

// errMissing marks a key no sub-fetch produced.
var errMissing = errors.New("no result")

// Options carries what every orchestrator shares.
type Options struct {
	Tracer   trace.Tracer
	Recorder *metrics.Recorder
	Tables   *fallback.Tables
	// RetryDelay is the backoff before the single retry of a rate-limited call.
	RetryDelay time.Duration
	Now        func() time.Time
}

type base struct {
	name       string
	tracer     trace.Tracer
	recorder   *metrics.Recorder
	tables     *fallback.Tables
	retryDelay time.Duration
	now        func() time.Time
}

func newBase(name string, opts Options) base {
	if opts.Tables == nil {
		opts.Tables = fallback.Default()
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.NewNoopTracerProvider().Tracer("aggregate")
	}
	return base{
		name:       name,
		tracer:     opts.Tracer,
		recorder:   opts.Recorder,
		tables:     opts.Tables,
		retryDelay: opts.RetryDelay,
		now:        opts.Now,
	}
}

func (b *base) start(ctx context.Context) (context.Context, trace.Span, *tally) {
	ctx, span := b.tracer.Start(ctx, "aggregate."+b.name+".refresh")
	return ctx, span, &tally{collection: b.name, recorder: b.recorder, startedAt: time.Now()}
}

// call runs fn, retrying once after a backoff when the upstream rate limited us.
func call[T any](ctx context.Context, b *base, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := retry.Do(
		func() error {
			v, err := fn(ctx)
			if err != nil {
				return err
			}
			out = v
			return nil
		},
		retry.Attempts(2),
		retry.Delay(b.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(func(err error) bool { return errors.Is(err, fetch.ErrRateLimited) }),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Str("collection", b.name).Uint("attempt", n+1).Err(err).Msg("retrying rate limited call")
		}),
	)
	return out, err
}

// tally counts resolved keys and which of them fell back.
type tally struct {
	collection string
	recorder   *metrics.Recorder
	startedAt  time.Time

	mu        sync.Mutex
	total     int
	fallbacks []string
}

func (t *tally) live() {
	t.mu.Lock()
	t.total++
	t.mu.Unlock()
}

func (t *tally) fallback(key string, err error) {
	t.mu.Lock()
	t.total++
	t.fallbacks = append(t.fallbacks, key)
	t.mu.Unlock()

	t.recorder.Fallback(t.collection, key)
	ev := log.Warn().Str("collection", t.collection).Str("key", key).Str("status", string(domain.StatusFallback))
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("substituting fallback value")
}

// meta closes the tally into the collection's Meta.
func (t *tally) meta(span trace.Span, now time.Time) domain.Meta {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := domain.Meta{
		Source:      domain.ResolveSource(t.total, len(t.fallbacks)),
		LastUpdated: now,
	}
	if len(t.fallbacks) > 0 {
		keys := append([]string(nil), t.fallbacks...)
		sort.Strings(keys)
		m.Error = fmt.Sprintf("Some data could not be refreshed; showing estimates for %s.", strings.Join(keys, ", "))
	}
	span.SetAttributes(
		attribute.String("source", string(m.Source)),
		attribute.Int("fallbacks", len(t.fallbacks)),
		attribute.Int("keys", t.total),
	)
	t.recorder.ObserveRefresh(t.collection, string(m.Source), time.Since(t.startedAt))
	return m
}

// results collects sub-fetch outcomes by key. Goroutines write in any order;
// the merge reads after the barrier.
type results[K comparable, V any] struct {
	mu   sync.Mutex
	vals map[K]V
	errs map[K]error
}

func newResults[K comparable, V any]() *results[K, V] {
	return &results[K, V]{vals: make(map[K]V), errs: make(map[K]error)}
}

func (r *results[K, V]) set(k K, v V) {
	r.mu.Lock()
	r.vals[k] = v
	r.mu.Unlock()
}

func (r *results[K, V]) fail(k K, err error) {
	r.mu.Lock()
	r.errs[k] = err
	r.mu.Unlock()
}

// get returns the value for k, or the error that prevented it.
func (r *results[K, V]) get(k K) (V, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vals[k]; ok {
		return v, nil
	}
	if err, ok := r.errs[k]; ok {
		var zero V
		return zero, err
	}
	var zero V
	return zero, errMissing
}

package aggregate

import (
	"context"
	"sync"
)

type loadingSetter interface {
	SetLoading(bool)
}

// Refresher serialises refreshes of one collection kind. Starting a refresh
// cancels the one in flight, and a superseded result is never published.
type Refresher[T any] struct {
	fn func(context.Context) T

	mu        sync.Mutex
	seq       uint64
	cancel    context.CancelFunc
	loading   bool
	latest    T
	ready     bool
	published chan struct{} // closed and replaced on every publish
}

func NewRefresher[T any](fn func(context.Context) T) *Refresher[T] {
	return &Refresher[T]{fn: fn, published: make(chan struct{})}
}

// Refresh runs a refresh to completion. The bool is false when a newer
// refresh superseded this one; its result is then discarded.
func (r *Refresher[T]) Refresh(ctx context.Context) (T, bool) {
	r.mu.Lock()
	ctx, cancel, seq := r.begin(ctx)
	r.mu.Unlock()
	defer cancel()

	return r.run(ctx, seq)
}

// Await returns the latest published result. Before anything has been
// published it joins the refresh in flight, or starts one that outlives ctx,
// and waits for it. A superseded refresh keeps it waiting for the newer one.
func (r *Refresher[T]) Await(ctx context.Context) (T, error) {
	return r.wait(ctx, func() bool { return r.ready }, true)
}

// Settle waits until no refresh is in flight and returns the published
// result.
func (r *Refresher[T]) Settle(ctx context.Context) (T, error) {
	return r.wait(ctx, func() bool { return r.ready && !r.loading }, false)
}

// Snapshot returns the latest published result with its loading flag set.
// The bool is false until a refresh has completed.
func (r *Refresher[T]) Snapshot() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(), r.ready
}

func (r *Refresher[T]) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// begin supersedes the refresh in flight. r.mu must be held.
func (r *Refresher[T]) begin(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	ctx, cancel := context.WithCancel(ctx)
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	r.cancel = cancel
	r.loading = true
	return ctx, cancel, r.seq
}

func (r *Refresher[T]) run(ctx context.Context, seq uint64) (T, bool) {
	v := r.fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		return v, false
	}
	r.latest, r.ready = v, true
	r.loading, r.cancel = false, nil
	close(r.published)
	r.published = make(chan struct{})
	return v, true
}

func (r *Refresher[T]) wait(ctx context.Context, done func() bool, start bool) (T, error) {
	for {
		r.mu.Lock()
		if done() {
			v := r.snapshotLocked()
			r.mu.Unlock()
			return v, nil
		}
		if start && !r.loading {
			rctx, cancel, seq := r.begin(context.WithoutCancel(ctx))
			go func() {
				defer cancel()
				r.run(rctx, seq)
			}()
		}
		published := r.published
		r.mu.Unlock()

		select {
		case <-published:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (r *Refresher[T]) snapshotLocked() T {
	v := r.latest
	if s, ok := any(&v).(loadingSetter); ok {
		s.SetLoading(r.loading)
	}
	return v
}

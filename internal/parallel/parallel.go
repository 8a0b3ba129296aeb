// Package parallel provides the bounded worker pool used by batch operations.
//
// Every batch helper in this module is a parallel map over independent SDK
// calls: submit N items to a fixed-size pool, collect N results in input
// order. Failures are isolated per item; a failed item never cancels its
// siblings. Context cancellation stops dispatching new items and marks the
// undispatched remainder with the context error.
package parallel

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

type settings struct {
	limiter *rate.Limiter
}

// Option adjusts pool behavior for a single call.
type Option func(*settings)

// WithLimiter paces dispatch through the given token-bucket limiter.
// Each item waits for one token before it is handed to a worker.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *settings) {
		s.limiter = l
	}
}

// Map runs fn over items with at most workers concurrent invocations and
// returns the results index-aligned with items.
//
// The returned error slice is nil when every item succeeded; otherwise it has
// one entry per item, nil for the ones that succeeded. fn is invoked exactly
// once per dispatched item. A non-positive worker count falls back to 1.
func Map[T, R any](
	ctx context.Context,
	items []T,
	workers int,
	fn func(ctx context.Context, index int, item T) (R, error),
	opts ...Option,
) ([]R, []error) {
	if len(items) == 0 {
		return nil, nil
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	var failed atomic.Bool

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

dispatch:
	for i := range items {
		if err := ctx.Err(); err != nil {
			markUndispatched(errs, i, ctx, err)
			failed.Store(true)
			break dispatch
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				markUndispatched(errs, i, ctx, err)
				failed.Store(true)
				break dispatch
			}
		}

		// Acquire a worker slot, bailing out if the context is cancelled
		// while we wait.
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			markUndispatched(errs, i, ctx, ctx.Err())
			failed.Store(true)
			break dispatch
		}

		wg.Add(1)
		go func(index int, item T) {
			defer wg.Done()
			defer func() { <-sem }()

			r, err := fn(ctx, index, item)
			if err != nil {
				errs[index] = err
				failed.Store(true)
				return
			}
			results[index] = r
		}(i, items[i])
	}

	wg.Wait()

	if !failed.Load() {
		return results, nil
	}
	return results, errs
}

// ForEach runs fn over items with at most workers concurrent invocations.
// It behaves like Map without collecting results.
func ForEach[T any](
	ctx context.Context,
	items []T,
	workers int,
	fn func(ctx context.Context, index int, item T) error,
	opts ...Option,
) []error {
	_, errs := Map(ctx, items, workers, func(ctx context.Context, index int, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, index, item)
	}, opts...)
	return errs
}

// Chunk splits items into consecutive slices of at most size elements.
// The chunks share the input's backing array. A non-positive size yields a
// single chunk containing all items.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// markUndispatched records the cancellation error for every item from index
// onward. Workers already running keep their slots; their indexes are below
// index by construction.
func markUndispatched(errs []error, from int, ctx context.Context, fallback error) {
	cause := ctx.Err()
	if cause == nil {
		cause = fallback
	}
	for i := from; i < len(errs); i++ {
		errs[i] = cause
	}
}

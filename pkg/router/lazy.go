package router

import (
	"context"
	"errors"
	"sync"

	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
)

// Lazy wraps load so that its first successful result is reused by every
// later call. Failed loads are not remembered; the next call tries again.
// Concurrent callers share a load in progress and stop waiting when their
// own context is done.
func Lazy[T any](load func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	var (
		mu       sync.Mutex
		done     bool
		val      T
		inflight *lazyCall[T]
	)
	return func(ctx context.Context) (T, error) {
		for {
			mu.Lock()
			if done {
				mu.Unlock()
				return val, nil
			}
			if call := inflight; call != nil {
				mu.Unlock()
				select {
				case <-call.ready:
				case <-ctx.Done():
					var zero T
					return zero, ctx.Err()
				}
				if call.err == nil {
					return call.val, nil
				}
				// The load was cut short by its owner's context; try again
				// under ours.
				if isContextErr(call.err) && ctx.Err() == nil {
					continue
				}
				var zero T
				return zero, call.err
			}

			call := &lazyCall[T]{ready: make(chan struct{})}
			inflight = call
			mu.Unlock()

			call.val, call.err = load(ctx)

			mu.Lock()
			if call.err == nil {
				val, done = call.val, true
			}
			inflight = nil
			mu.Unlock()
			close(call.ready)

			if call.err != nil {
				var zero T
				return zero, call.err
			}
			return call.val, nil
		}
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// lazyCall is one load attempt shared by concurrent callers.
type lazyCall[T any] struct {
	ready chan struct{}
	val   T
	err   error
}

// LazyContent memoizes a content loader.
func LazyContent(l ContentLoader) ContentLoader {
	return Lazy[content.Module](l)
}

// LazyEndpoint memoizes an endpoint loader.
func LazyEndpoint(l EndpointLoader) EndpointLoader {
	return Lazy[*endpoint.Module](l)
}

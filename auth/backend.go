package auth

import (
	"context"
	"time"
)

const (
	defaultBackendTimeout = 10 * time.Second
	releaseTimeout        = 5 * time.Second
)

// call runs one collaborator request under timeout. A request that outlives
// its deadline is left to finish in the background and its result dropped.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	return callOrRelease(ctx, timeout, fn, nil)
}

// callOrRelease is call for requests that create something. When the caller
// has already given up, a late successful result is handed to release
// instead of being dropped.
func callOrRelease[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error), release func(T)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result)
	abandoned := make(chan struct{})
	go func() {
		v, err := fn(callCtx)
		select {
		case done <- result{value: v, err: err}:
		case <-abandoned:
			if err == nil && release != nil {
				release(v)
			}
		}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-callCtx.Done():
		close(abandoned)
		var zero T
		return zero, callCtx.Err()
	}
}

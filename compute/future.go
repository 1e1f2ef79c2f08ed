package compute

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned by Future.Result before the future settles.
var ErrPending = errors.New("compute: result pending")

// Error is the rejection reason of a function that failed or panicked.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "compute: " + e.Message
}

// Future is the eventual result of a submitted computation.
//
// A Future settles at most once. It is safe for concurrent use.
type Future[R any] struct {
	done chan struct{}
	once sync.Once

	value R
	err   error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// Resolved returns a future already settled with v.
func Resolved[R any](v R) *Future[R] {
	f := newFuture[R]()
	f.settle(v, nil)
	return f
}

// Rejected returns a future already settled with err.
func Rejected[R any](err error) *Future[R] {
	f := newFuture[R]()
	var zero R
	f.settle(zero, err)
	return f
}

func (f *Future[R]) settle(v R, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done returns a channel closed when the future settles.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the future has settled.
func (f *Future[R]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the settled value without blocking.
// It returns ErrPending if the future has not settled yet.
func (f *Future[R]) Result() (R, error) {
	if !f.Ready() {
		var zero R
		return zero, ErrPending
	}
	return f.value, f.err
}

// Await blocks until the future settles or ctx is done.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

package pkgasync

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// ErrPending is returned by Result while the future has not settled.
var ErrPending = errors.New("future has not settled")

// PanicError is the settlement of a future whose function panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in async function: %v", e.Value)
}

// Future is a result that is not available yet.
type Future[T any] struct {
	done     chan struct{}
	once     sync.Once
	onCancel func()
	value    T
	err      error
}

// Settle completes a pending future. Only the first call has an effect.
type Settle[T any] func(value T, err error)

// Pending returns an unsettled future and the function that settles it.
//
// onCancel is invoked by Cancel and may be nil.
func Pending[T any](onCancel func()) (*Future[T], Settle[T]) {
	f := &Future[T]{
		done:     make(chan struct{}),
		onCancel: onCancel,
	}
	return f, f.settle
}

// Resolved returns a future already settled with value and err.
func Resolved[T any](value T, err error) *Future[T] {
	f, settle := Pending[T](nil)
	settle(value, err)
	return f
}

// Go runs fn on its own goroutine and returns its future.
//
// fn receives a child of ctx that is canceled by Cancel. A panic in fn settles
// the future with a *PanicError.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f, settle := Pending[T](cancel)

	go func() {
		defer cancel()
		defer func() {
			if rvr := recover(); rvr != nil {
				var zero T
				settle(zero, &PanicError{Value: rvr, Stack: debug.Stack()})
			}
		}()

		settle(fn(ctx))
	}()

	return f
}

func (f *Future[T]) settle(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done.
//
// When ctx ends first, ctx.Err() is returned and the future keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the settlement without blocking, or ErrPending.
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		var zero T
		return zero, ErrPending
	}
}

// Cancel asks the producer to stop. It is a no-op on a settled future.
func (f *Future[T]) Cancel() {
	select {
	case <-f.done:
		return
	default:
	}

	if f.onCancel != nil {
		f.onCancel()
	}
}

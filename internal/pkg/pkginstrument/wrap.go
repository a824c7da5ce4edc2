package pkginstrument

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgasync"
)

// Call runs fn as the instrumented operation method called with args.
//
// It is the building block for delegating types that implement the same
// interface as the component they wrap. The result and error of fn are
// returned unchanged; a panic is logged and re-raised with the same value.
func Call[R any](ctx context.Context, in *Instrumentor, method string, args []any, fn func() (R, error)) (R, error) {
	if !in.Enabled() {
		return fn()
	}

	c := in.begin(ctx, method, args)

	settled := false
	defer func() {
		if settled {
			return
		}
		rvr := recover()
		if rvr == nil {
			c.fail(ctx, "goroutine exited", "goexit", false)
			return
		}
		c.failPanic(ctx, rvr)
		panic(rvr)
	}()

	res, err := fn()
	settled = true

	if err != nil {
		c.failErr(ctx, err, false)
	} else {
		c.succeed(ctx, res)
	}

	return res, err
}

// Async runs start as the instrumented asynchronous operation method.
//
// The returned future settles with exactly what the future from start
// settles with. Canceling it cancels the original. The terminating record is
// emitted when the original settles, before the returned future settles.
func Async[R any](ctx context.Context, in *Instrumentor, method string, args []any, start func() *pkgasync.Future[R]) *pkgasync.Future[R] {
	if !in.Enabled() {
		return start()
	}

	c := in.begin(ctx, method, args)

	var src *pkgasync.Future[R]
	func() {
		settled := false
		defer func() {
			if settled {
				return
			}
			rvr := recover()
			if rvr == nil {
				c.fail(ctx, "goroutine exited", "goexit", false)
				return
			}
			c.failPanic(ctx, rvr)
			panic(rvr)
		}()

		src = start()
		settled = true
	}()

	if src == nil {
		c.succeed(ctx, nil)
		return nil
	}

	var cancelRequested atomic.Bool
	out, settle := pkgasync.Pending[R](func() {
		select {
		case <-src.Done():
			return
		default:
		}
		cancelRequested.Store(true)
		src.Cancel()
	})

	go func() {
		<-src.Done()

		value, err := src.Result()
		if err != nil {
			c.failErr(ctx, err, cancelRequested.Load() && errors.Is(err, context.Canceled))
		} else {
			c.succeed(ctx, value)
		}

		settle(value, err)
	}()

	return out
}

// Func0 wraps an operation without arguments besides ctx.
func Func0[R any](in *Instrumentor, method string, fn func(ctx context.Context) (R, error)) func(ctx context.Context) (R, error) {
	if !in.Enabled() {
		return fn
	}

	return func(ctx context.Context) (R, error) {
		return Call(ctx, in, method, nil, func() (R, error) {
			return fn(ctx)
		})
	}
}

// Func wraps an operation taking one argument besides ctx.
func Func[A, R any](in *Instrumentor, method string, fn func(ctx context.Context, a A) (R, error)) func(ctx context.Context, a A) (R, error) {
	if !in.Enabled() {
		return fn
	}

	return func(ctx context.Context, a A) (R, error) {
		return Call(ctx, in, method, []any{a}, func() (R, error) {
			return fn(ctx, a)
		})
	}
}

// Func2 wraps an operation taking two arguments besides ctx.
func Func2[A, B, R any](in *Instrumentor, method string, fn func(ctx context.Context, a A, b B) (R, error)) func(ctx context.Context, a A, b B) (R, error) {
	if !in.Enabled() {
		return fn
	}

	return func(ctx context.Context, a A, b B) (R, error) {
		return Call(ctx, in, method, []any{a, b}, func() (R, error) {
			return fn(ctx, a, b)
		})
	}
}

// AsyncFunc wraps an asynchronous operation taking one argument besides ctx.
func AsyncFunc[A, R any](in *Instrumentor, method string, fn func(ctx context.Context, a A) *pkgasync.Future[R]) func(ctx context.Context, a A) *pkgasync.Future[R] {
	if !in.Enabled() {
		return fn
	}

	return func(ctx context.Context, a A) *pkgasync.Future[R] {
		return Async(ctx, in, method, []any{a}, func() *pkgasync.Future[R] {
			return fn(ctx, a)
		})
	}
}

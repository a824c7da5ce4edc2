package pkgroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgasync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by tasks, panics included, and can be waited on
// using Wait.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   *sync.WaitGroup
	sema chan struct{}
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		wg:   &sync.WaitGroup{},
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go schedules f once a slot is free.
//
// If pCtx ends before a slot is acquired, f is not run and a warning is
// logged. A panic in f is recovered and reported by Wait as a
// *pkgasync.PanicError.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	g.spawn(pCtx, f, nil)
}

// Submit runs fn on the manager and returns its future.
//
// Submit never blocks: when every slot is busy the task waits for one on its
// own goroutine, and canceling the future or ctx before a slot frees up
// settles it with the context error without running fn. fn receives a child
// of ctx that is canceled by the future's Cancel. Errors returned by fn settle
// the future and are not collected by Wait; panics settle it with a
// *pkgasync.PanicError and are collected.
func Submit[T any](g *Manager, ctx context.Context, fn func(ctx context.Context) (T, error)) *pkgasync.Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f, settle := pkgasync.Pending[T](cancel)

	abort := func(err error) {
		cancel()
		var zero T
		settle(zero, err)
	}

	g.wg.Add(1)
	go func() {
		if !g.acquire(ctx) {
			g.wg.Done()
			abort(ctx.Err())
			return
		}

		g.run(ctx, func(ctx context.Context) error {
			defer cancel()
			settle(fn(ctx))
			return nil
		}, abort)
	}()

	return f
}

func (g *Manager) spawn(pCtx context.Context, f func(ctx context.Context) error, abort func(error)) {
	if !g.acquire(pCtx) {
		if abort != nil {
			abort(pCtx.Err())
		}
		return
	}

	g.wg.Add(1)
	go g.run(pCtx, f, abort)
}

// acquire takes a slot, or reports false once pCtx ends first.
func (g *Manager) acquire(pCtx context.Context) bool {
	select {
	case g.sema <- struct{}{}:
		return true
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		return false
	}
}

// run executes f on the calling goroutine while holding a slot. The caller
// has already added to wg.
func (g *Manager) run(pCtx context.Context, f func(ctx context.Context) error, abort func(error)) {
	defer g.wg.Done()
	defer func() {
		<-g.sema

		if rvr := recover(); rvr != nil {
			perr := &pkgasync.PanicError{Value: rvr, Stack: debug.Stack()}
			slog.ErrorContext(pCtx, "panic occurred in goroutine", "panic", rvr, "stack", string(perr.Stack))
			g.record(perr)
			if abort != nil {
				abort(perr)
			}
		}
	}()

	select {
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled", "because", pCtx.Err())
		if abort != nil {
			abort(pCtx.Err())
		}
	default:
		g.record(f(pCtx))
	}
}

func (g *Manager) record(err error) {
	if err == nil {
		return
	}

	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

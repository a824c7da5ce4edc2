package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Start serves HTTP in the background. The returned channel is closed on
// SIGINT, SIGTERM or SIGHUP.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		<-ctx.Done()
		close(terminateChan)

		slog.Info("termination signal received")
	}()

	return terminateChan
}

// Stop drains the application in dependency order: stop accepting requests,
// cancel background work and wait for it, then release the remaining
// resources in reverse registration order.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	if a.cancel != nil {
		a.cancel()
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished")

	for _, c := range slices.Backward(a.closers) {
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}

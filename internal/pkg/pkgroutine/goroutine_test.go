package pkgroutine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgasync"
)

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	if got := cap(mgr.sema); got != DefaultMaxGoroutine {
		t.Fatalf("expected cap %d, got %d", DefaultMaxGoroutine, got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	if joined == nil {
		t.Fatalf("expected errors")
	}
	if !errors.Is(joined, errOne) {
		t.Fatalf("expected errOne to be present")
	}
	if !errors.Is(joined, errTwo) {
		t.Fatalf("expected errTwo to be present")
	}
}

func TestManagerRecoversPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	err := mgr.Wait()
	var perr *pkgasync.PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("expected panic error, got %v", err)
	}
	if perr.Value != "boom" {
		t.Fatalf("expected panic value boom, got %v", perr.Value)
	}
}

func TestSubmitSettlesFuture(t *testing.T) {
	mgr := NewManager(1)

	fut := Submit(mgr, context.Background(), func(ctx context.Context) (int, error) {
		return 7, nil
	})

	got, err := fut.Await(context.Background())
	if err != nil || got != 7 {
		t.Fatalf("expected 7, nil; got %d, %v", got, err)
	}

	errBad := errors.New("bad")
	fut = Submit(mgr, context.Background(), func(ctx context.Context) (int, error) {
		return 0, errBad
	})
	if _, err := fut.Await(context.Background()); !errors.Is(err, errBad) {
		t.Fatalf("expected errBad, got %v", err)
	}

	if err := mgr.Wait(); err != nil {
		t.Fatalf("submit errors must not be collected, got %v", err)
	}
}

func TestSubmitPanicSettlesWithPanicError(t *testing.T) {
	mgr := NewManager(1)

	fut := Submit(mgr, context.Background(), func(ctx context.Context) (string, error) {
		panic("kaboom")
	})

	_, err := fut.Await(context.Background())
	var perr *pkgasync.PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("expected panic error, got %v", err)
	}
	if err := mgr.Wait(); !errors.As(err, &perr) {
		t.Fatalf("expected panic to be collected, got %v", err)
	}
}

func TestSubmitCancel(t *testing.T) {
	mgr := NewManager(1)
	started := make(chan struct{})

	fut := Submit(mgr, context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	<-started
	fut.Cancel()

	if _, err := fut.Await(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	_ = mgr.Wait()
}

func TestSubmitCanceledBeforeStart(t *testing.T) {
	mgr := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fut := Submit(mgr, ctx, func(ctx context.Context) (int, error) {
		t.Error("function must not run")
		return 0, nil
	})

	if _, err := fut.Await(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	_ = mgr.Wait()
}

func TestSubmitDoesNotBlockWhenSaturated(t *testing.T) {
	mgr := NewManager(1)
	release := make(chan struct{})
	held := make(chan struct{})

	mgr.Go(context.Background(), func(ctx context.Context) error {
		close(held)
		<-release
		return nil
	})
	<-held

	returned := make(chan *pkgasync.Future[int], 1)
	go func() {
		returned <- Submit(mgr, context.Background(), func(ctx context.Context) (int, error) {
			return 3, nil
		})
	}()

	var fut *pkgasync.Future[int]
	select {
	case fut = <-returned:
	case <-time.After(time.Second):
		t.Fatalf("Submit blocked while the manager was saturated")
	}

	if _, err := fut.Result(); !errors.Is(err, pkgasync.ErrPending) {
		t.Fatalf("expected pending future, got %v", err)
	}

	close(release)

	got, err := fut.Await(context.Background())
	if err != nil || got != 3 {
		t.Fatalf("expected 3, nil; got %d, %v", got, err)
	}
	if err := mgr.Wait(); err != nil {
		t.Fatalf("unexpected errors: %v", err)
	}
}

func TestSubmitCancelWhileWaitingForSlot(t *testing.T) {
	mgr := NewManager(1)
	release := make(chan struct{})
	held := make(chan struct{})

	mgr.Go(context.Background(), func(ctx context.Context) error {
		close(held)
		<-release
		return nil
	})
	<-held

	fut := Submit(mgr, context.Background(), func(ctx context.Context) (int, error) {
		t.Error("function must not run")
		return 0, nil
	})
	fut.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := fut.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	close(release)
	_ = mgr.Wait()
}

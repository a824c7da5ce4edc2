package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkginstrument"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
)

type Handler interface {
	Handle(ctx context.Context, event entity.FailedPaymentEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	// Instrumentor logs every handler attempt. Nil disables call logging.
	Instrumentor *pkginstrument.Instrumentor
}

// ReconciliationConsumer drains the bus with a fixed worker pool.
//
// Every event is handled in its own scope seeded with the request id of the
// capture that failed, so handler logs correlate with the original request.
type ReconciliationConsumer struct {
	bus         *Bus
	handle      func(ctx context.Context, event entity.FailedPaymentEvent) (struct{}, error)
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewReconciliationConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *ReconciliationConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	maxRetries := max(cfg.MaxRetries, 0)

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	var handle func(ctx context.Context, event entity.FailedPaymentEvent) (struct{}, error)
	if handler != nil {
		handle = pkginstrument.Func(cfg.Instrumentor.With("ReconciliationConsumer"), "Handle",
			func(ctx context.Context, event entity.FailedPaymentEvent) (struct{}, error) {
				return struct{}{}, handler.Handle(ctx, event)
			})
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &ReconciliationConsumer{
		bus:         bus,
		handle:      handle,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (c *ReconciliationConsumer) Start() {
	for range c.workers {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for queued events to drain. When ctx ends
// first, in-flight retries are abandoned.
func (c *ReconciliationConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		if n := c.bus.Backlog(); n > 0 {
			slog.InfoContext(ctx, "draining failed payment events", "backlog", n)
		}
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.cancel()
		return nil
	case <-ctx.Done():
		c.cancel()
		return ctx.Err()
	}
}

func (c *ReconciliationConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		//nolint:errcheck // processEvent logs its own failures
		_, _ = pkgscope.Run(c.ctx, func(ctx context.Context) (struct{}, error) {
			if event.RequestID != "" {
				if err := pkgscope.SetRequestID(ctx, event.RequestID); err != nil {
					slog.ErrorContext(ctx, "failed to seed event scope", "error", err)
				}
			}

			c.processEvent(ctx, event)
			return struct{}{}, nil
		})
	}
}

func (c *ReconciliationConsumer) processEvent(ctx context.Context, event entity.FailedPaymentEvent) {
	if c.handle == nil {
		return
	}

	if event.EventID != "" {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.InfoContext(ctx, "skip duplicate failed payment event", "event_id", event.EventID, "payment_id", event.PaymentID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		_, err := c.handle(ctx, event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.ErrorContext(ctx, "failed to reconcile payment after retries", "event_id", event.EventID, "payment_id", event.PaymentID, "error", err)
			return
		}

		if !sleepBackoff(ctx, backoff) {
			return
		}
		backoff *= 2
	}
}

func sleepBackoff(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// LogReconciler records failed payments for manual follow-up.
type LogReconciler struct{}

func (LogReconciler) Handle(ctx context.Context, event entity.FailedPaymentEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}

	slog.InfoContext(ctx, "reconciled failed payment", "event_id", event.EventID, "payment_id", event.PaymentID, "reason", event.Reason)
	return nil
}

package event

import (
	"context"
	"errors"
	"sync"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
)

var (
	ErrBusClosed    = errors.New("event bus is closed")
	ErrInvalidEvent = errors.New("failed payment event has no payment id")
)

// Bus queues failed payment events for reconciliation.
//
// Publish stamps events that lack a request id with the one in the caller's
// scope, so the consumer can open the event's own scope under the same id.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	queue  chan entity.FailedPaymentEvent
}

func NewBus(buffer int) *Bus {
	return &Bus{queue: make(chan entity.FailedPaymentEvent, max(buffer, 1))}
}

func (b *Bus) Publish(ctx context.Context, event entity.FailedPaymentEvent) error {
	if event.PaymentID <= 0 {
		return ErrInvalidEvent
	}
	if event.RequestID == "" {
		event.RequestID = pkgscope.RequestID(ctx)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns the queue. It is closed by Close once drained.
func (b *Bus) Subscribe() <-chan entity.FailedPaymentEvent {
	return b.queue
}

// Backlog reports how many events wait for a consumer.
func (b *Bus) Backlog() int {
	return len(b.queue)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.queue)
	}
}

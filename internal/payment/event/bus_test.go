package event

import (
	"context"
	"errors"
	"testing"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
)

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(1)
	bus.Close()
	bus.Close()

	if err := bus.Publish(context.Background(), entity.FailedPaymentEvent{EventID: "x", PaymentID: 1}); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBusPublishHonorsContext(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Publish(context.Background(), entity.FailedPaymentEvent{EventID: "a", PaymentID: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := bus.Backlog(); got != 1 {
		t.Fatalf("expected backlog 1, got %d", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := bus.Publish(ctx, entity.FailedPaymentEvent{EventID: "b", PaymentID: 2}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled on full bus, got %v", err)
	}
}

func TestBusRejectsEventWithoutPayment(t *testing.T) {
	bus := NewBus(1)

	if err := bus.Publish(context.Background(), entity.FailedPaymentEvent{EventID: "x"}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
	if got := bus.Backlog(); got != 0 {
		t.Fatalf("rejected event must not be queued, backlog %d", got)
	}
}

func TestBusStampsRequestIDFromScope(t *testing.T) {
	tests := []struct {
		name      string
		scopeID   string
		eventID   string
		wantStamp string
	}{
		{name: "missing id taken from scope", scopeID: "req-scope", wantStamp: "req-scope"},
		{name: "explicit id kept", scopeID: "req-scope", eventID: "req-event", wantStamp: "req-event"},
		{name: "no scope leaves it empty", wantStamp: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.scopeID != "" {
				ctx = pkgscope.Begin(ctx)
				if err := pkgscope.SetRequestID(ctx, tt.scopeID); err != nil {
					t.Fatalf("SetRequestID: %v", err)
				}
			}

			bus := NewBus(1)
			if err := bus.Publish(ctx, entity.FailedPaymentEvent{EventID: "evt", PaymentID: 1, RequestID: tt.eventID}); err != nil {
				t.Fatalf("publish: %v", err)
			}

			got := <-bus.Subscribe()
			if got.RequestID != tt.wantStamp {
				t.Fatalf("expected request id %q, got %q", tt.wantStamp, got.RequestID)
			}
		})
	}
}

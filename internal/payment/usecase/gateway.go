package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
)

// ErrDeclined is returned by a Gateway that refuses a capture.
var ErrDeclined = errors.New("payment declined")

// Gateway captures funds at the payment provider.
type Gateway interface {
	Capture(ctx context.Context, p entity.Payment) error
}

// LimitGateway is an in-process provider that declines payments above Limit.
//
// Delay simulates provider latency and honors ctx cancellation.
type LimitGateway struct {
	Limit int64
	Delay time.Duration
}

func (g LimitGateway) Capture(ctx context.Context, p entity.Payment) error {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if g.Limit > 0 && p.Amount > g.Limit {
		return ErrDeclined
	}

	return nil
}

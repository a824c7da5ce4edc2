package usecase

import (
	"context"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgasync"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkginstrument"
)

// Component is the name payment service calls are logged under.
const Component = "PaymentService"

type instrumented struct {
	next Service
	in   *pkginstrument.Instrumentor
}

// NewInstrumented returns a Service that logs every call to next through in.
// When in is inactive, next is returned as is.
func NewInstrumented(next Service, in *pkginstrument.Instrumentor) Service {
	if !in.Enabled() {
		return next
	}

	return &instrumented{next: next, in: in.With(Component)}
}

func (s *instrumented) Create(ctx context.Context, in CreateInput) (entity.Payment, error) {
	return pkginstrument.Call(ctx, s.in, "Create", []any{in}, func() (entity.Payment, error) {
		return s.next.Create(ctx, in)
	})
}

func (s *instrumented) Get(ctx context.Context, id int64) (entity.Payment, error) {
	return pkginstrument.Call(ctx, s.in, "Get", []any{id}, func() (entity.Payment, error) {
		return s.next.Get(ctx, id)
	})
}

func (s *instrumented) List(ctx context.Context, in ListInput) (ListResult, error) {
	return pkginstrument.Call(ctx, s.in, "List", []any{in}, func() (ListResult, error) {
		return s.next.List(ctx, in)
	})
}

func (s *instrumented) Capture(ctx context.Context, id int64) *pkgasync.Future[entity.Payment] {
	return pkginstrument.Async(ctx, s.in, "Capture", []any{id}, func() *pkgasync.Future[entity.Payment] {
		return s.next.Capture(ctx, id)
	})
}

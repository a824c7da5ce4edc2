package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgasync"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgerror"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgroutine"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkguid"
)

const maxReferenceLen = 64

type Store interface {
	Create(ctx context.Context, p entity.Payment) error
	Get(ctx context.Context, id int64) (entity.Payment, error)
	UpdateStatus(ctx context.Context, id int64, from, to entity.Status, reason string, at time.Time) (entity.Payment, error)
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]entity.Payment, int, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.FailedPaymentEvent) error
}

type Clock interface {
	Now() time.Time
}

// Service is the payments API. Capture settles asynchronously.
type Service interface {
	Create(ctx context.Context, in CreateInput) (entity.Payment, error)
	Get(ctx context.Context, id int64) (entity.Payment, error)
	List(ctx context.Context, in ListInput) (ListResult, error)
	Capture(ctx context.Context, id int64) *pkgasync.Future[entity.Payment]
}

type Dependency struct {
	Store   Store
	Events  EventPublisher
	Gateway Gateway
	Runner  *pkgroutine.Manager
	Clock   Clock
	ID      pkguid.NumberID
	EventID pkguid.StringID
	// RootCtx bounds background captures instead of the request context.
	RootCtx context.Context
}

type Usecase struct {
	store   Store
	events  EventPublisher
	gateway Gateway
	runner  *pkgroutine.Manager
	clock   Clock
	id      pkguid.NumberID
	eventID pkguid.StringID
	rootCtx context.Context
}

var _ Service = (*Usecase)(nil)

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	gateway := dep.Gateway
	if gateway == nil {
		gateway = LimitGateway{}
	}

	return &Usecase{
		store:   dep.Store,
		events:  dep.Events,
		gateway: gateway,
		runner:  dep.Runner,
		clock:   clock,
		id:      dep.ID,
		eventID: dep.EventID,
		rootCtx: root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (entity.Payment, error) {
	if u.store == nil || u.id == nil {
		return entity.Payment{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if err := validateCreate(&in); err != nil {
		return entity.Payment{}, err
	}

	now := u.clock.Now()
	p := entity.Payment{
		ID:        u.id.Generate(),
		Reference: in.Reference,
		Amount:    in.Amount,
		Currency:  in.Currency,
		Status:    entity.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.store.Create(ctx, p); err != nil {
		return entity.Payment{}, pkgerror.Normalize(err)
	}

	return p, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (entity.Payment, error) {
	if id <= 0 {
		return entity.Payment{}, pkgerror.NewInvalidInput(errors.New("invalid payment id"))
	}

	p, err := u.store.Get(ctx, id)
	if err != nil {
		return entity.Payment{}, mapStoreErr(err)
	}

	return p, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) (ListResult, error) {
	if in.Page < 1 || in.PageSize < 1 {
		return ListResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}
	in.PageSize = min(in.PageSize, MaxPageSize)

	for _, s := range in.Filter.Statuses {
		if !s.Valid() {
			return ListResult{}, pkgerror.NewInvalidInput(errors.New("invalid status filter"))
		}
	}

	items, total, err := u.store.List(ctx, in.Filter, in.Page, in.PageSize)
	if err != nil {
		return ListResult{}, pkgerror.Normalize(err)
	}

	return ListResult{
		Payments: items,
		Page:     in.Page,
		PageSize: in.PageSize,
		Total:    total,
	}, nil
}

// Capture settles a pending payment in the background.
//
// The work runs on the root context, so it survives the request, but keeps
// the request scope and therefore its correlation id.
func (u *Usecase) Capture(ctx context.Context, id int64) *pkgasync.Future[entity.Payment] {
	if u.runner == nil {
		return pkgasync.Resolved(entity.Payment{}, pkgerror.NewServer(errors.New("missing dependency")))
	}

	if id <= 0 {
		return pkgasync.Resolved(entity.Payment{}, pkgerror.NewInvalidInput(errors.New("invalid payment id")))
	}

	bg := pkgscope.Carry(u.rootCtx, ctx)

	return pkgroutine.Submit(u.runner, bg, func(ctx context.Context) (entity.Payment, error) {
		return u.capture(ctx, id)
	})
}

func (u *Usecase) capture(ctx context.Context, id int64) (entity.Payment, error) {
	p, err := u.store.Get(ctx, id)
	if err != nil {
		return entity.Payment{}, mapStoreErr(err)
	}
	if p.Status != entity.StatusPending {
		return entity.Payment{}, pkgerror.NewBusiness("payment is "+string(p.Status), pkgerror.CodeConflict)
	}

	gwErr := u.gateway.Capture(ctx, p)
	if gwErr != nil && !errors.Is(gwErr, ErrDeclined) {
		return entity.Payment{}, pkgerror.Normalize(gwErr)
	}

	if gwErr == nil {
		captured, err := u.store.UpdateStatus(ctx, id, entity.StatusPending, entity.StatusCaptured, "", u.clock.Now())
		if err != nil {
			return entity.Payment{}, mapStoreErr(err)
		}
		return captured, nil
	}

	failed, err := u.store.UpdateStatus(ctx, id, entity.StatusPending, entity.StatusFailed, gwErr.Error(), u.clock.Now())
	if err != nil {
		return entity.Payment{}, mapStoreErr(err)
	}

	u.publishFailed(ctx, failed)

	return failed, pkgerror.NewBusiness("payment declined", pkgerror.CodeInvalidInput)
}

func (u *Usecase) publishFailed(ctx context.Context, p entity.Payment) {
	if u.events == nil {
		return
	}

	event := entity.FailedPaymentEvent{
		PaymentID:  p.ID,
		RequestID:  pkgscope.RequestID(ctx),
		Reason:     p.FailureReason,
		OccurredAt: p.UpdatedAt,
	}
	if u.eventID != nil {
		event.EventID = u.eventID.Generate()
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "payment_id", p.ID, "event_id", event.EventID, "error", err)
	}
}

func validateCreate(in *CreateInput) error {
	in.Reference = strings.TrimSpace(in.Reference)
	in.Currency = entity.Currency(strings.ToUpper(strings.TrimSpace(string(in.Currency))))

	switch {
	case in.Reference == "":
		return pkgerror.NewInvalidInput(errors.New("reference is required"))
	case len(in.Reference) > maxReferenceLen:
		return pkgerror.NewInvalidInput(errors.New("reference is too long"))
	case in.Amount <= 0:
		return pkgerror.NewInvalidInput(errors.New("amount must be positive"))
	case !in.Currency.Valid():
		return pkgerror.NewInvalidInput(errors.New("unsupported currency"))
	}

	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound("payment not found")
	}
	return pkgerror.Normalize(err)
}

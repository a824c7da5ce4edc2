package payment

import (
	"context"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/event"
	"github.com/incubmainer/somegram-backend-sub002/internal/payment/inbound"
	"github.com/incubmainer/somegram-backend-sub002/internal/payment/store"
	"github.com/incubmainer/somegram-backend-sub002/internal/payment/usecase"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgconfig"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkginstrument"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgrouter"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgroutine"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkguid"
)

type Dependency struct {
	Config       pkgconfig.Config
	Goroutine    *pkgroutine.Manager
	Router       *pkgrouter.Router
	Context      context.Context
	ID           pkguid.NumberID
	EventID      pkguid.StringID
	Instrumentor *pkginstrument.Instrumentor
}

// New wires the payment module and returns its shutdown hook.
func New(dep Dependency) (func(context.Context) error, error) {
	if dep.ID == nil {
		ids, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, err
		}
		dep.ID = ids
	}

	if dep.EventID == nil {
		dep.EventID = pkguid.NewUUID()
	}

	storage := store.NewInMemoryStore()
	bus := event.NewBus(int(dep.Config.GetInt("modules.payment.event_buffer")))
	consumer := event.NewReconciliationConsumer(bus, event.LogReconciler{}, event.ConsumerConfig{
		Workers:      int(dep.Config.GetInt("modules.payment.event_workers")),
		MaxRetries:   3,
		BaseBackoff:  200 * time.Millisecond,
		Instrumentor: dep.Instrumentor,
	})
	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Store:  storage,
		Events: bus,
		Gateway: usecase.LimitGateway{
			Limit: dep.Config.GetInt("modules.payment.capture_limit"),
			Delay: dep.Config.GetDuration("modules.payment.gateway_delay"),
		},
		Runner:  dep.Goroutine,
		ID:      dep.ID,
		EventID: dep.EventID,
		RootCtx: dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.NewInstrumented(uc, dep.Instrumentor))

	return consumer.Stop, nil
}

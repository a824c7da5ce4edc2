package app

import (
	"log/slog"
	"os"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.payment.enabled") {
		closer, err := payment.New(payment.Dependency{
			Config:       a.config,
			Router:       a.router,
			Goroutine:    a.goroutine,
			Context:      a.ctx,
			ID:           a.snowflake,
			EventID:      a.uuid,
			Instrumentor: a.instrumentor,
		})
		if err != nil {
			slog.Error("failed to init module payment", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			a.addCloser("Payment", closer)
		}
	}
}

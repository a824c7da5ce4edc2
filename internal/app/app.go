package app

import (
	"context"
	"net/http"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgconfig"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkginstrument"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkglog"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgmetrics"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgrouter"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgroutine"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid         pkguid.StringID
	snowflake    pkguid.NumberID
	goroutine    *pkgroutine.Manager
	metrics      *pkgmetrics.Metrics
	instrumentor *pkginstrument.Instrumentor

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	closers []closer
}

func New() *App {
	pkglog.InitLogging("")

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initInstrumentor()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}

// ShutdownTimeout bounds Stop.
func (a *App) ShutdownTimeout() time.Duration {
	return a.config.GetDuration("shutdown.timeout")
}

package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgconfig"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkginstrument"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkglog"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgmetrics"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgrouter"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgroutine"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkguid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLogging() {
	slog.SetDefault(pkglog.NewLogger(
		os.Stdout,
		a.config.GetString("app.name"),
		pkglog.ParseLevel(a.config.GetString("log.level")),
	))
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("goroutine.max")))
	a.uuid = pkguid.NewUUID()

	snowflake, err := pkguid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = snowflake

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = pkgmetrics.New(metricsNamespace(a.config.GetString("app.name")), registry)
}

func (a *App) initInstrumentor() {
	env := a.config.GetString("app.env")
	disabledEnvs := a.config.GetArray("instrument.disabled_envs")

	var sink pkginstrument.Sink
	switch a.config.GetString("instrument.sink") {
	case "zap":
		logger, err := zap.NewProduction()
		if err != nil {
			slog.Error("failed to init zap logger", "error", err)
			os.Exit(1)
		}
		sink = pkginstrument.NewZapSink(logger.Named(a.config.GetString("app.name")))
		a.addCloser("Zap", func(context.Context) error {
			//nolint:errcheck // syncing stdout fails on some platforms
			_ = logger.Sync()
			return nil
		})
	default:
		sink = pkginstrument.NewSlogSink(slog.Default())
	}

	a.instrumentor = pkginstrument.New(pkginstrument.Options{
		Sink:     sink,
		Level:    pkglog.ParseLevel(a.config.GetString("instrument.level")),
		Observer: a.metrics,
		Active: func() bool {
			return a.config.GetBool("instrument.enabled") && !slices.Contains(disabledEnvs, env)
		},
	})

	slog.Info("call instrumentation configured", "enabled", a.instrumentor.Enabled(), "env", env)
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid,
		pkgrouter.WithName(a.config.GetString("app.name")),
		pkgrouter.WithRequestObserver(a.metrics),
	)
	a.router.Handle(http.MethodGet, "/metrics", a.metrics.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{pkgrouter.HeaderRequestID, pkgrouter.HeaderCorrelationID},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *App) initClosers() {
	a.addCloser("Config", func(context.Context) error {
		return a.config.Close()
	})
}

// metricsNamespace turns an app name such as "somegram-payments" into a valid
// Prometheus namespace.
func metricsNamespace(name string) string {
	ns := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if ns == "" || (ns[0] >= '0' && ns[0] <= '9') {
		ns = "app_" + ns
	}
	return ns
}

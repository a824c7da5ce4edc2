package pkglog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// InitLogging configures the default slog logger for the application.
//
// The logger writes JSON to stdout and normalizes a few common fields to make
// logs easier to query (for example, "ts" and "severity").
func InitLogging(service string) {
	slog.SetDefault(NewLogger(os.Stdout, service, slog.LevelInfo))
}

// NewLogger builds the application logger writing JSON to w.
func NewLogger(w io.Writer, service string, level slog.Leveler) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	return slog.New(&contextHandler{Handler: jsonHandler, service: service})
}

// ParseLevel maps a config value such as "debug" or "WARN" to a slog level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			if strings.Contains(src.File, "/internal/") {
				relPath := filepath.Join("internal", strings.SplitAfter(src.File, "/internal/")[1])
				return slog.Attr{
					Key:   "file",
					Value: slog.StringValue(fmt.Sprintf("%s:%d", relPath, src.Line)),
				}
			}
			return slog.Attr{}
		}
	}
	return a
}

type contextHandler struct {
	slog.Handler
	service string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("request_id", cID))
	}
	if h.service != "" {
		r.AddAttrs(slog.String("service", h.service))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), service: h.service}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), service: h.service}
}

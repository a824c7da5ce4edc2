package pkglog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
)

type captureHandler struct {
	attrs map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	if h.attrs == nil {
		h.attrs = make(map[string]slog.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.attrs[a.Key] = a.Value
		return true
	})
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(_ string) slog.Handler {
	return h
}

func TestContextHandlerAddsServiceAndCID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture, service: "payments"}

	ctx := pkgscope.Begin(context.Background())
	if err := SetCorrelationID(ctx, "cid-abc"); err != nil {
		t.Fatalf("SetCorrelationID: %v", err)
	}
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	if err := handler.Handle(ctx, rec); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := capture.attrs["service"].String(); got != "payments" {
		t.Fatalf("expected service=payments, got %q", got)
	}
	if got := capture.attrs["request_id"].String(); got != "cid-abc" {
		t.Fatalf("expected request_id=cid-abc, got %q", got)
	}
}

func TestContextHandlerSkipsMissingCID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture, service: "payments"}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	if err := handler.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if _, ok := capture.attrs["request_id"]; ok {
		t.Fatalf("did not expect request_id to be set")
	}
}

func TestNewLoggerWritesStableKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "payments", slog.LevelDebug)

	ctx := pkgscope.Begin(context.Background())
	_ = SetCorrelationID(ctx, "cid-json")
	logger.With("component", "test").InfoContext(ctx, "hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	for _, key := range []string{"ts", "severity", "request_id", "service", "component"} {
		if _, ok := line[key]; !ok {
			t.Fatalf("expected key %q in %v", key, line)
		}
	}
	if line["request_id"] != "cid-json" {
		t.Fatalf("unexpected request_id: %v", line["request_id"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

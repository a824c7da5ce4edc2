package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkglog"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkguid"
)

type staticGenerator struct {
	value string
	calls int
}

func (g *staticGenerator) Generate() string {
	g.calls++
	return g.value
}

func serveCID(t *testing.T, mw Middleware, headers map[string]string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var gotCID string
	wrapped := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCID = pkglog.GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)
	return rec, gotCID
}

func TestMiddlewareRequestScopeUsesHeader(t *testing.T) {
	gen := &staticGenerator{value: "generated"}

	rec, gotCID := serveCID(t, middlewareRequestScope(gen), map[string]string{HeaderRequestID: "abc-123"})

	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected response request id header, got %q", got)
	}
	if gotCID != "abc-123" {
		t.Fatalf("expected scope cid abc-123, got %q", gotCID)
	}
	if gen.calls != 0 {
		t.Fatalf("expected generator not called")
	}
}

func TestMiddlewareRequestScopeEchoesAlternativeHeader(t *testing.T) {
	rec, gotCID := serveCID(t, middlewareRequestScope(nil), map[string]string{HeaderCorrelationID: "corr-1"})

	if got := rec.Header().Get(HeaderCorrelationID); got != "corr-1" {
		t.Fatalf("expected echo under %s, got %q", HeaderCorrelationID, got)
	}
	if got := rec.Header().Get(HeaderRequestID); got != "" {
		t.Fatalf("did not expect %s, got %q", HeaderRequestID, got)
	}
	if gotCID != "corr-1" {
		t.Fatalf("expected scope cid corr-1, got %q", gotCID)
	}
}

func TestMiddlewareRequestScopeGeneratesWhenMissing(t *testing.T) {
	gen := &staticGenerator{value: "generated"}

	rec, gotCID := serveCID(t, middlewareRequestScope(gen), nil)

	if got := rec.Header().Get(HeaderRequestID); got != "generated" {
		t.Fatalf("expected response cid header, got %q", got)
	}
	if gotCID != "generated" {
		t.Fatalf("expected scope cid generated, got %q", gotCID)
	}
	if gen.calls != 1 {
		t.Fatalf("expected generator called once")
	}
}

func TestMiddlewareRequestScopeReplacesOverlongID(t *testing.T) {
	gen := &staticGenerator{value: "generated"}
	long := strings.Repeat("é", maxCIDLen)

	rec, gotCID := serveCID(t, middlewareRequestScope(gen), map[string]string{HeaderRequestID: long})

	if gotCID != "generated" {
		t.Fatalf("expected generated cid for an overlong header, got %q", gotCID)
	}
	if got := rec.Header().Get(HeaderRequestID); got != "generated" {
		t.Fatalf("expected generated id echoed, got %q", got)
	}
}

func TestMiddlewareRequestScopeGeneratedIDsDiffer(t *testing.T) {
	mw := middlewareRequestScope(pkguid.NewUUID())

	_, first := serveCID(t, mw, nil)
	_, second := serveCID(t, mw, nil)

	if first == "" || second == "" {
		t.Fatalf("expected non-empty ids, got %q and %q", first, second)
	}
	if first == second {
		t.Fatalf("expected different ids per request, got %q twice", first)
	}
}

func TestMiddlewareRequestScopeIsFreshPerRequest(t *testing.T) {
	mw := middlewareRequestScope(&staticGenerator{value: "g"})

	var leaked bool
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok, _ := pkgscope.Get(r.Context(), "user"); ok {
			leaked = true
		}
		_ = pkgscope.Set(r.Context(), "user", "alice")
	}))

	for range 2 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	if leaked {
		t.Fatalf("value from a previous request leaked into the next scope")
	}
}

package pkgrouter

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkglog"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
)

// Generator generates a unique string (used for correlation/request IDs).
type Generator interface {
	Generate() string
}

const (
	// HeaderRequestID is the canonical header used to track requests end-to-end.
	HeaderRequestID = "X-Request-ID"
	// HeaderCorrelationID is an accepted alternative header name used by some proxies.
	HeaderCorrelationID = "X-Correlation-ID"
)

// maxCIDLen bounds an inbound correlation id. Longer ids are rejected, not cut.
const maxCIDLen = 128

func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "", len(v) > maxCIDLen:
		return ""
	case strings.ContainsAny(v, "\r\n"), !utf8.ValidString(v):
		return ""
	}
	return v
}

// requestID picks the inbound correlation id and the header it arrived in.
func requestID(h http.Header) (string, string) {
	if cid := normalizeCID(h.Get(HeaderRequestID)); cid != "" {
		return HeaderRequestID, cid
	}
	if cid := normalizeCID(h.Get(HeaderCorrelationID)); cid != "" {
		return HeaderCorrelationID, cid
	}
	return HeaderRequestID, ""
}

// middlewareRequestScope runs every request inside its own pkgscope scope
// seeded with the correlation id, and echoes the id back on the response.
func middlewareRequestScope(uid Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header, cid := requestID(r.Header)
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			//nolint:errcheck // the body never returns an error
			_, _ = pkgscope.Run(r.Context(), func(ctx context.Context) (struct{}, error) {
				if cid != "" {
					w.Header().Set(header, cid)
					if err := pkglog.SetCorrelationID(ctx, cid); err != nil {
						slog.ErrorContext(ctx, "failed to seed request scope", "error", err)
					}
				}

				next.ServeHTTP(w, r.WithContext(ctx))
				return struct{}{}, nil
			})
		})
	}
}

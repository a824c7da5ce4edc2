package pkglog

import (
	"context"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgscope"
)

// GetCorrelationID returns the correlation ID of the request scope in ctx.
//
// This is the tolerant read used by logging: outside a request scope it
// returns "" instead of failing, so background logs are still written.
func GetCorrelationID(ctx context.Context) string {
	return pkgscope.RequestID(ctx)
}

// SetCorrelationID stores a correlation ID into the request scope of ctx.
//
// Middleware is expected to open the scope and set this value early in the
// request lifecycle so it can be attached to logs and propagated to
// downstream calls.
func SetCorrelationID(ctx context.Context, cid string) error {
	return pkgscope.SetRequestID(ctx, cid)
}

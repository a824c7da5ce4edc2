package pkgrouter

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that mws run in the given order before it.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// GetParam returns the path parameter key of the matched route, or "".
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}

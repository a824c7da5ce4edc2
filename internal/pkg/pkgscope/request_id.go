package pkgscope

import "context"

// KeyRequestID is the well-known key holding the correlation id of the
// current unit of work.
const KeyRequestID = "requestId"

// SetRequestID stores the correlation id in the active scope.
func SetRequestID(ctx context.Context, id string) error {
	return Set(ctx, KeyRequestID, id)
}

// RequestID returns the correlation id of the active scope.
//
// Unlike Get it never fails: a missing scope or key yields "".
func RequestID(ctx context.Context) string {
	id, _, _ := Lookup[string](ctx, KeyRequestID)
	return id
}

package pkgscope

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// ErrNoActiveScope is returned when the context carries no scope.
var ErrNoActiveScope = errors.New("no active scope in context")

type scopeContextKey struct{}

// Scope is the mutable store of one logical task.
//
// The zero value is not usable; scopes are created by Run and Begin.
type Scope struct {
	mu     sync.RWMutex
	values map[any]any
}

func newScope() *Scope {
	return &Scope{values: make(map[any]any)}
}

func (s *Scope) set(key, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

func (s *Scope) get(key any) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Run opens a fresh, empty scope and calls body with a context carrying it.
//
// The scope is visible to everything body does with that context, including
// goroutines it starts. The caller's ctx is never modified, so an outer scope
// is visible again as soon as Run returns. Result and error are returned
// unchanged.
func Run[R any](ctx context.Context, body func(ctx context.Context) (R, error)) (R, error) {
	return body(Begin(ctx))
}

// Begin returns a child of ctx carrying a fresh, empty scope.
//
// It is the bodiless form of Run for callers that manage the extent of the
// unit of work themselves.
func Begin(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeContextKey{}, newScope())
}

// Carry returns a child of dst that shares the scope active in src.
//
// Use it when a logical task continues on a context with a different
// lifetime, such as background work that must outlive the request but keep
// its correlation id. If src has no scope, dst is returned as is.
func Carry(dst, src context.Context) context.Context {
	s, ok := fromContext(src)
	if !ok {
		return dst
	}
	if dst == nil {
		dst = context.Background()
	}
	return context.WithValue(dst, scopeContextKey{}, s)
}

// Active reports whether ctx carries a scope.
func Active(ctx context.Context) bool {
	_, ok := fromContext(ctx)
	return ok
}

// Set stores value under key in the scope active in ctx.
func Set(ctx context.Context, key, value any) error {
	s, ok := fromContext(ctx)
	if !ok {
		return ErrNoActiveScope
	}

	s.set(key, value)
	return nil
}

// Get reads key from the scope active in ctx.
//
// An unknown key is not an error: it returns (nil, false, nil).
func Get(ctx context.Context, key any) (any, bool, error) {
	s, ok := fromContext(ctx)
	if !ok {
		return nil, false, ErrNoActiveScope
	}

	v, found := s.get(key)
	return v, found, nil
}

// Lookup is Get with the value asserted to T. A value of another type is
// reported as absent.
func Lookup[T any](ctx context.Context, key any) (T, bool, error) {
	var zero T

	v, found, err := Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}

// Snapshot returns a copy of every value in the active scope.
func Snapshot(ctx context.Context) (map[any]any, error) {
	s, ok := fromContext(ctx)
	if !ok {
		return nil, ErrNoActiveScope
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values), nil
}

func fromContext(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(scopeContextKey{}).(*Scope)
	return s, ok && s != nil
}

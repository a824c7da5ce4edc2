// Package pkgscope provides a mutable key/value store bound to one logical
// task (for example one inbound request).
//
// A scope is opened with Run (or Begin) and travels with the context.Context
// derived from it, so every function, goroutine, or worker that receives that
// context reads and writes the same store. Contexts that were not derived from
// the scope never see it:
//   - Concurrent requests each get their own store.
//   - A nested Run shadows the outer store only for the duration of its body.
//   - Carry hands a scope over to a context with a different lifetime.
package pkgscope

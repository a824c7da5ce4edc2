// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// Handlers return any error; the router calls Normalize to turn it into an
// *Error whose Code picks the HTTP status. Stores return sentinels such as
// ErrNotFound, and use cases wrap them with a user-facing message.
// Context cancellation and deadlines map to their own codes so that a
// client going away is not reported as a server fault.
package pkgerror

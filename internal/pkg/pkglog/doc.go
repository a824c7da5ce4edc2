// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys.
//   - Attaching the request correlation ID (when a request scope is active) to
//     each log record.
//   - Masking sensitive fields before request bodies or call arguments are
//     logged.
package pkglog

// Package pkgmetrics exposes Prometheus metrics for instrumented calls and
// HTTP requests.
package pkgmetrics

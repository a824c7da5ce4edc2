// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, error mapping, logging, and recovery. Every request is
// served inside its own pkgscope scope seeded with the request ID taken from
// X-Request-ID (or X-Correlation-ID), or generated when absent.
package pkgrouter

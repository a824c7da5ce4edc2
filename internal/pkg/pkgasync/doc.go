// Package pkgasync provides a small Future type for results that settle later.
//
// A Future settles exactly once, either with a value or with an error, and can
// be canceled by its consumer. Canceling a future runs the cancel hook of its
// producer; the producer still decides how the future settles.
package pkgasync

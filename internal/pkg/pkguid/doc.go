// Package pkguid provides the identifier generators used by the application.
//
// Request and event IDs are time-ordered UUIDs (version 7). Payment IDs are
// Snowflake numbers, which sort by creation time and fit in an int64 column.
// Callers depend on the StringID and NumberID interfaces so tests can inject
// deterministic generators.
package pkguid

// Package pkginstrument logs calls to application operations without changing
// what they return.
//
// Every instrumented call emits one "input" record with its serialized
// arguments before delegating, then exactly one terminating record: "output"
// with the result, or "error" with the returned error, panic, or
// cancellation. Values and errors reach the caller untouched, including the
// identity of the error.
//
// Operations are wrapped one at a time with Func, Func0, Func2 or AsyncFunc,
// or from inside an explicit delegating type with Call and Async. When the
// instrumentor is inactive every wrapper hands back the original operation.
package pkginstrument

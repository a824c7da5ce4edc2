package pkginstrument

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Sink receives call records. Implementations must accept concurrent calls;
// each record is delivered by a single Log call.
type Sink interface {
	Log(ctx context.Context, level slog.Level, msg string, rec Record)
}

// Observer is notified once per call with its terminating phase.
type Observer interface {
	ObserveCall(component, method string, phase Phase, elapsed time.Duration)
}

// Options configures an Instrumentor.
type Options struct {
	// Component prefixes every log message, for example "PaymentService".
	Component string
	Sink      Sink
	Level     slog.Level
	// Active is evaluated once by New. A nil Active means active.
	Active   func() bool
	Observer Observer
	Now      func() time.Time
}

// Instrumentor wraps operations with call logging.
//
// A nil *Instrumentor is valid and inactive.
type Instrumentor struct {
	component string
	sink      Sink
	level     slog.Level
	observer  Observer
	now       func() time.Time
	active    bool
}

// New builds an Instrumentor. It is inactive when opts.Sink is nil or
// opts.Active reports false.
func New(opts Options) *Instrumentor {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	active := opts.Sink != nil
	if active && opts.Active != nil {
		active = opts.Active()
	}

	return &Instrumentor{
		component: opts.Component,
		sink:      opts.Sink,
		level:     opts.Level,
		observer:  opts.Observer,
		now:       now,
		active:    active,
	}
}

// Enabled reports whether wrapped calls are logged.
func (in *Instrumentor) Enabled() bool {
	return in != nil && in.active
}

// With returns a copy of the instrumentor logging under another component
// name. The active decision is inherited, not re-evaluated.
func (in *Instrumentor) With(component string) *Instrumentor {
	if in == nil {
		return nil
	}
	clone := *in
	clone.component = component
	return &clone
}

type call struct {
	in     *Instrumentor
	method string
	start  time.Time
}

func (in *Instrumentor) begin(ctx context.Context, method string, args []any) *call {
	in.emit(ctx, Record{
		Method:    method,
		Phase:     PhaseInput,
		Timestamp: in.now().UnixMilli(),
		Data:      serializeArgs(args),
	})

	return &call{in: in, method: method, start: in.now()}
}

func (c *call) succeed(ctx context.Context, result any) {
	elapsed, at := c.elapsed()
	c.in.emit(ctx, Record{
		Method:        c.method,
		Phase:         PhaseOutput,
		Timestamp:     at.UnixMilli(),
		ExecutionTime: elapsed.Milliseconds(),
		Data:          serializeValue(result),
	})
	c.in.observe(c.method, PhaseOutput, elapsed)
}

func (c *call) fail(ctx context.Context, errMsg, errType string, canceled bool) {
	elapsed, at := c.elapsed()
	c.in.emit(ctx, Record{
		Method:        c.method,
		Phase:         PhaseError,
		Timestamp:     at.UnixMilli(),
		ExecutionTime: elapsed.Milliseconds(),
		Error:         errMsg,
		ErrorType:     errType,
		Canceled:      canceled,
	})
	c.in.observe(c.method, PhaseError, elapsed)
}

func (c *call) failErr(ctx context.Context, err error, cancelRequested bool) {
	canceled := cancelRequested || errors.Is(err, context.Canceled)
	c.fail(ctx, err.Error(), fmt.Sprintf("%T", err), canceled)
}

func (c *call) failPanic(ctx context.Context, rvr any) {
	c.fail(ctx, fmt.Sprint(rvr), "panic", false)
}

func (c *call) elapsed() (time.Duration, time.Time) {
	at := c.in.now()
	return at.Sub(c.start), at
}

func (in *Instrumentor) emit(ctx context.Context, rec Record) {
	msg := rec.Method
	if in.component != "" {
		msg = in.component + "." + rec.Method
	}
	in.sink.Log(ctx, in.level, msg, rec)
}

func (in *Instrumentor) observe(method string, phase Phase, elapsed time.Duration) {
	if in.observer != nil {
		in.observer.ObserveCall(in.component, method, phase, elapsed)
	}
}

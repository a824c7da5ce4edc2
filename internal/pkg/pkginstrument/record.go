package pkginstrument

import "log/slog"

// Phase is the point of a call a Record describes.
type Phase string

const (
	PhaseInput  Phase = "input"  // Before the operation runs.
	PhaseOutput Phase = "output" // The operation returned without error.
	PhaseError  Phase = "error"  // The operation failed, panicked, or was canceled.
)

// Record is the structured payload of one call log line.
type Record struct {
	Method        string
	Phase         Phase
	Timestamp     int64 // unix millis at emission
	ExecutionTime int64 // millis since delegation, zero for input
	Data          string
	Error         string
	ErrorType     string
	Canceled      bool
}

// Attrs renders the record as slog attributes.
func (r Record) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("phase", string(r.Phase)),
		slog.Int64("timestamp", r.Timestamp),
	}

	switch r.Phase {
	case PhaseInput:
		attrs = append(attrs, slog.String("args", r.Data))
	case PhaseOutput:
		attrs = append(attrs,
			slog.Int64("execution_time_ms", r.ExecutionTime),
			slog.String("result", r.Data),
		)
	case PhaseError:
		attrs = append(attrs,
			slog.Int64("execution_time_ms", r.ExecutionTime),
			slog.String("error", r.Error),
			slog.String("error_type", r.ErrorType),
		)
	}

	if r.Canceled {
		attrs = append(attrs, slog.Bool("canceled", true))
	}

	return attrs
}

package pkginstrument

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SlogSink writes records through a slog.Logger.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink returns a sink over logger, or over slog.Default when nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

func (s *SlogSink) Log(ctx context.Context, level slog.Level, msg string, rec Record) {
	s.Logger.LogAttrs(ctx, level, msg, rec.Attrs()...)
}

// ZapSink writes records through a zap.Logger.
//
// zap does not read the context, so the request id is not attached unless the
// logger was built with it.
type ZapSink struct {
	Logger *zap.Logger
}

// NewZapSink returns a sink over logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{Logger: logger}
}

func (s *ZapSink) Log(_ context.Context, level slog.Level, msg string, rec Record) {
	if ce := s.Logger.Check(zapLevel(level), msg); ce != nil {
		ce.Write(zapFields(rec)...)
	}
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level < slog.LevelInfo:
		return zapcore.DebugLevel
	case level < slog.LevelWarn:
		return zapcore.InfoLevel
	case level < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func zapFields(rec Record) []zap.Field {
	attrs := rec.Attrs()
	fields := make([]zap.Field, 0, len(attrs))
	for _, a := range attrs {
		fields = append(fields, zap.Any(a.Key, a.Value.Any()))
	}
	return fields
}

// Entry is one record captured by a RecorderSink.
type Entry struct {
	Level   slog.Level
	Message string
	Record  Record
}

// RecorderSink keeps records in memory.
type RecorderSink struct {
	mu      sync.Mutex
	entries []Entry
	notify  chan struct{}
}

// NewRecorderSink returns an empty RecorderSink.
func NewRecorderSink() *RecorderSink {
	return &RecorderSink{notify: make(chan struct{}, 1)}
}

func (s *RecorderSink) Log(_ context.Context, level slog.Level, msg string, rec Record) {
	s.mu.Lock()
	s.entries = append(s.entries, Entry{Level: level, Message: msg, Record: rec})
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Entries returns a copy of everything recorded so far.
func (s *RecorderSink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// WaitFor blocks until at least n entries were recorded or ctx is done.
func (s *RecorderSink) WaitFor(ctx context.Context, n int) ([]Entry, error) {
	for {
		if entries := s.Entries(); len(entries) >= n {
			return entries, nil
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return s.Entries(), ctx.Err()
		}
	}
}

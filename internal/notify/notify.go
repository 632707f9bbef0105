// Package notify formats and emits grade-added notifications.
//
// Sinks are plain values whose OnGradeAdded method is subscribed to a
// gradebook.Store:
//
//	store.Subscribe(notify.NewSink(os.Stdout).OnGradeAdded)
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/gradebook/internal/grade"
)

// Message renders the notification text for one new grade.
func Message(student, course string, g grade.Value) string {
	return fmt.Sprintf("[notification] new grade for %s in %s: %s", student, course, g)
}

// Sink writes one line per notification to an io.Writer.
type Sink struct {
	w      io.Writer
	logger *slog.Logger
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithErrorLogger logs failed writes at debug level. Without it they are
// discarded.
func WithErrorLogger(logger *slog.Logger) SinkOption {
	return func(s *Sink) { s.logger = logger }
}

// NewSink creates a Sink writing to w.
func NewSink(w io.Writer, opts ...SinkOption) *Sink {
	s := &Sink{w: w, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnGradeAdded writes the notification line. A failed write never fails the
// grade that triggered it; it is only logged.
func (s *Sink) OnGradeAdded(student, course string, g grade.Value) {
	if _, err := fmt.Fprintln(s.w, Message(student, course, g)); err != nil {
		s.logger.Debug("notification write failed",
			"student", student,
			"course", course,
			"error", err,
		)
	}
}

// LogSink emits notifications as structured log records.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogSink creates a LogSink logging at level. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger, level slog.Level) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger, level: level}
}

// OnGradeAdded logs the notification.
func (s *LogSink) OnGradeAdded(student, course string, g grade.Value) {
	s.logger.Log(context.Background(), s.level, "grade added",
		"student", student,
		"course", course,
		"grade", g.String(),
	)
}

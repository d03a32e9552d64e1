package templateparser

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/templateparser/pkg/templateparser/leaf"
	"github.com/randalmurphal/templateparser/pkg/templateparser/observability"
)

// Option configures a Parser or Library.
type Option func(*settings)

// settings is shared by Parser, Library and the package-level functions.
type settings struct {
	style     Style
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	sanitizer leaf.Sanitizer
}

func newSettings(opts ...Option) settings {
	s := settings{
		style:   Brace,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithStyle sets the style used by Parser.Execute.
//
// Default: Brace
func WithStyle(style Style) Option {
	return func(s *settings) {
		s.style = style
	}
}

// WithLogger attaches a structured logger. Renders and projections log at
// Debug, failures at Error.
//
// Default: nil (no logging)
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
//
// Default: observability.NoopMetrics{}
//
// Example:
//
//	p := New(tmpl, WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(s *settings) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSpanManager sets the span manager used for tracing.
//
// Default: observability.NoopSpanManager{}
func WithSpanManager(sm observability.SpanManager) Option {
	return func(s *settings) {
		if sm != nil {
			s.spans = sm
		}
	}
}

// WithClock sets the clock that supplies the default for absent time leaves.
//
// Default: time.Now
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.sanitizer.Now = now
	}
}

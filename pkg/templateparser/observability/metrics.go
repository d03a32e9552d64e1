package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records templateparser metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRender records one render with its duration, the number of
	// placeholders that had no value, and the error if it failed.
	RecordRender(ctx context.Context, style string, duration time.Duration, missing int, err error)

	// RecordProjection records one projection and the number of leaves produced.
	RecordProjection(ctx context.Context, typeName string, leaves int, duration time.Duration)

	// RecordStoreOp records a template store operation.
	RecordStoreOp(ctx context.Context, op string, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	renders          metric.Int64Counter
	renderLatency    metric.Float64Histogram
	renderErrors     metric.Int64Counter
	missingKeys      metric.Int64Counter
	projections      metric.Int64Counter
	projectionLeaves metric.Int64Histogram
	projectionTime   metric.Float64Histogram
	storeOps         metric.Int64Counter
	storeErrors      metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("templateparser")
	m := &otelMetrics{}
	var err error

	if m.renders, err = meter.Int64Counter("templateparser.render.count",
		metric.WithDescription("Number of template renders"),
	); err != nil {
		return nil, err
	}

	if m.renderLatency, err = meter.Float64Histogram("templateparser.render.latency_ms",
		metric.WithDescription("Template render latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.renderErrors, err = meter.Int64Counter("templateparser.render.errors",
		metric.WithDescription("Number of failed template renders"),
	); err != nil {
		return nil, err
	}

	if m.missingKeys, err = meter.Int64Counter("templateparser.render.missing_keys",
		metric.WithDescription("Placeholders rendered empty because no value was supplied"),
	); err != nil {
		return nil, err
	}

	if m.projections, err = meter.Int64Counter("templateparser.projection.count",
		metric.WithDescription("Number of value projections"),
	); err != nil {
		return nil, err
	}

	if m.projectionLeaves, err = meter.Int64Histogram("templateparser.projection.leaves",
		metric.WithDescription("Leaves produced per projection"),
	); err != nil {
		return nil, err
	}

	if m.projectionTime, err = meter.Float64Histogram("templateparser.projection.latency_ms",
		metric.WithDescription("Projection latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.storeOps, err = meter.Int64Counter("templateparser.store.operations",
		metric.WithDescription("Number of template store operations"),
	); err != nil {
		return nil, err
	}

	if m.storeErrors, err = meter.Int64Counter("templateparser.store.errors",
		metric.WithDescription("Number of failed template store operations"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRender records a render.
func (m *otelMetrics) RecordRender(ctx context.Context, style string, duration time.Duration, missing int, err error) {
	attrs := metric.WithAttributes(attribute.String("style", style))

	m.renders.Add(ctx, 1, attrs)
	m.renderLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if missing > 0 {
		m.missingKeys.Add(ctx, int64(missing), attrs)
	}
	if err != nil {
		m.renderErrors.Add(ctx, 1, attrs)
	}
}

// RecordProjection records a projection.
func (m *otelMetrics) RecordProjection(ctx context.Context, typeName string, leaves int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("type", typeName))

	m.projections.Add(ctx, 1, attrs)
	m.projectionLeaves.Record(ctx, int64(leaves), attrs)
	m.projectionTime.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordStoreOp records a store operation.
func (m *otelMetrics) RecordStoreOp(ctx context.Context, op string, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", op))

	m.storeOps.Add(ctx, 1, attrs)
	if err != nil {
		m.storeErrors.Add(ctx, 1, attrs)
	}
}

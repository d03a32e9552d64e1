// Package observability provides logging, metrics and tracing for template
// rendering and value projection.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds the template name to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "welcome-email")
//	enriched.Debug("rendering") // includes template=welcome-email
func EnrichLogger(logger *slog.Logger, templateName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("template", templateName))
}

// LogRender logs a completed render.
func LogRender(logger *slog.Logger, style string, resolved, missing int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("template rendered",
		slog.String("style", style),
		slog.Int("resolved", resolved),
		slog.Int("missing", missing),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRenderError logs a failed render.
func LogRenderError(logger *slog.Logger, style string, err error) {
	if logger == nil {
		return
	}
	logger.Error("template render failed",
		slog.String("style", style),
		slog.String("error", err.Error()),
	)
}

// LogDroppedEscape logs an escape sequence with no replacement.
func LogDroppedEscape(logger *slog.Logger, sequence string) {
	if logger == nil {
		return
	}
	logger.Debug("unknown escape dropped",
		slog.String("sequence", sequence),
	)
}

// LogProjection logs a completed projection.
func LogProjection(logger *slog.Logger, typeName string, leaves int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("value projected",
		slog.String("type", typeName),
		slog.Int("leaves", leaves),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStoreError logs a failed template store operation.
func LogStoreError(logger *slog.Logger, op, name string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template store operation failed",
		slog.String("operation", op),
		slog.String("template", name),
		slog.String("error", err.Error()),
	)
}

// LogTemplateAdded logs a template saved to a library along with the
// number of parsed templates the library now caches.
func LogTemplateAdded(logger *slog.Logger, name string, revision int, keys []string, cached int) {
	if logger == nil {
		return
	}
	logger.Debug("template added",
		slog.String("template", name),
		slog.Int("revision", revision),
		slog.Any("keys", keys),
		slog.Int("cached", cached),
	)
}

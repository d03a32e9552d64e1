package templateparser

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/templateparser/pkg/templateparser/observability"
)

// testLogHandler captures log records for testing.
type testLogHandler struct {
	mu    *sync.Mutex
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestLogHandler() *testLogHandler {
	return &testLogHandler{
		mu:    &sync.Mutex{},
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, a := range h.attrs {
		data[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &testLogHandler{
		mu:    h.mu,
		buf:   h.buf,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *testLogHandler) WithGroup(string) slog.Handler { return h }

func (h *testLogHandler) getRecords() []map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	var records []map[string]any
	for _, line := range bytes.Split(h.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err == nil {
			records = append(records, m)
		}
	}
	return records
}

// recordsWithMsg returns the records whose message is msg.
func (h *testLogHandler) recordsWithMsg(msg string) []map[string]any {
	var out []map[string]any
	for _, r := range h.getRecords() {
		if r["msg"] == msg {
			out = append(out, r)
		}
	}
	return out
}

type renderCall struct {
	style   string
	missing int
	err     error
}

type storeCall struct {
	op  string
	err error
}

// recordingMetrics keeps every call made to it.
type recordingMetrics struct {
	mu          sync.Mutex
	renders     []renderCall
	projections []string
	storeOps    []storeCall
}

var _ observability.MetricsRecorder = (*recordingMetrics)(nil)

func (m *recordingMetrics) RecordRender(_ context.Context, style string, _ time.Duration, missing int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders = append(m.renders, renderCall{style: style, missing: missing, err: err})
}

func (m *recordingMetrics) RecordProjection(_ context.Context, typeName string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projections = append(m.projections, typeName)
}

func (m *recordingMetrics) RecordStoreOp(_ context.Context, op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeOps = append(m.storeOps, storeCall{op: op, err: err})
}

// recordingSpans counts span lifecycle calls on top of the no-op manager.
type recordingSpans struct {
	observability.NoopSpanManager
	mu      sync.Mutex
	started []string
	ended   []error
	events  []string
}

func (s *recordingSpans) StartRenderSpan(ctx context.Context, style string, n int) (context.Context, trace.Span) {
	s.mu.Lock()
	s.started = append(s.started, "render")
	s.mu.Unlock()
	return s.NoopSpanManager.StartRenderSpan(ctx, style, n)
}

func (s *recordingSpans) StartProjectSpan(ctx context.Context, typeName string) (context.Context, trace.Span) {
	s.mu.Lock()
	s.started = append(s.started, "project")
	s.mu.Unlock()
	return s.NoopSpanManager.StartProjectSpan(ctx, typeName)
}

func (s *recordingSpans) EndSpanWithError(_ trace.Span, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = append(s.ended, err)
}

func (s *recordingSpans) AddSpanEvent(_ context.Context, name string, _ ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
}

package templateparser

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/templateparser/pkg/templateparser/leaf"
)

func TestRender_WithLogger(t *testing.T) {
	h := newTestLogHandler()
	p := New(`Hi {Name} {Missing}\q`, WithLogger(slog.New(h)))

	result, err := p.Render(person(), Brace)
	require.NoError(t, err)
	assert.Equal(t, "Hi Jon ", result)

	rendered := h.recordsWithMsg("template rendered")
	require.Len(t, rendered, 1)
	assert.Equal(t, "brace", rendered[0]["style"])
	assert.Equal(t, float64(1), rendered[0]["resolved"])
	assert.Equal(t, float64(1), rendered[0]["missing"])

	dropped := h.recordsWithMsg("unknown escape dropped")
	require.Len(t, dropped, 1)
	assert.Equal(t, `\q`, dropped[0]["sequence"])
}

func TestRender_WithLogger_Error(t *testing.T) {
	h := newTestLogHandler()
	p := New("{Tag}", WithLogger(slog.New(h)))

	_, err := p.Render(leaf.Map{"Tag": leaf.Null(leaf.KindOther)}, Brace)
	require.Error(t, err)

	failed := h.recordsWithMsg("template render failed")
	require.Len(t, failed, 1)
	assert.Equal(t, "ERROR", failed[0]["level"])
	assert.Contains(t, failed[0]["error"], "Tag")
	assert.Empty(t, h.recordsWithMsg("template rendered"))
}

func TestRender_WithMetrics(t *testing.T) {
	m := &recordingMetrics{}
	p := New("{Name} {Nope}", WithMetrics(m))

	_, err := p.Render(person(), Bracket)
	require.NoError(t, err)
	_, err = p.Render(nil, Brace)
	require.Error(t, err)

	require.Len(t, m.renders, 2)
	assert.Equal(t, "bracket", m.renders[0].style)
	assert.Equal(t, 0, m.renders[0].missing)
	assert.NoError(t, m.renders[0].err)
	assert.ErrorIs(t, m.renders[1].err, ErrNilVariables)

	_, err = p.Render(person(), Brace)
	require.NoError(t, err)
	assert.Equal(t, 1, m.renders[2].missing)
}

func TestRenderObject_WithObservability(t *testing.T) {
	h := newTestLogHandler()
	m := &recordingMetrics{}
	spans := &recordingSpans{}

	p := New("{greetingAddress.City}",
		WithLogger(slog.New(h)),
		WithMetrics(m),
		WithSpanManager(spans),
	)

	result, err := p.RenderObject(&greetingAddress{City: "Springfield"}, Brace)
	require.NoError(t, err)
	assert.Equal(t, "Springfield", result)

	assert.Equal(t, []string{"*templateparser.greetingAddress"}, m.projections)
	assert.Equal(t, []string{"project", "render"}, spans.started)
	assert.Equal(t, []error{nil, nil}, spans.ended)

	projected := h.recordsWithMsg("value projected")
	require.Len(t, projected, 1)
	assert.Equal(t, float64(1), projected[0]["leaves"])
}

func TestRenderObject_ProjectionErrorEndsSpan(t *testing.T) {
	spans := &recordingSpans{}
	m := &recordingMetrics{}
	p := New("{X}", WithSpanManager(spans), WithMetrics(m))

	_, err := p.RenderObject(nil, Brace)
	require.Error(t, err)

	assert.Equal(t, []string{"project"}, spans.started)
	require.Len(t, spans.ended, 1)
	assert.Error(t, spans.ended[0])
	assert.Empty(t, m.projections)
	assert.Empty(t, m.renders)
}

func TestRender_DroppedEscapeSpanEvent(t *testing.T) {
	spans := &recordingSpans{}
	_, err := New(`a\qb\n`, WithSpanManager(spans)).Render(person(), Brace)
	require.NoError(t, err)

	assert.Equal(t, []string{"escape.dropped"}, spans.events)
}

func TestOptions_NilRecordersKeepDefaults(t *testing.T) {
	p := New("{Name}", WithMetrics(nil), WithSpanManager(nil))

	assert.NotNil(t, p.metrics)
	assert.NotNil(t, p.spans)

	result, err := p.Render(person(), Brace)
	require.NoError(t, err)
	assert.Equal(t, "Jon", result)
}

func TestRenderError_Format(t *testing.T) {
	err := &RenderError{Key: "Tag", Err: leaf.ErrUnsupportedKind}
	assert.Equal(t, `render placeholder "Tag": `+leaf.ErrUnsupportedKind.Error(), err.Error())
	assert.True(t, errors.Is(err, leaf.ErrUnsupportedKind))
}

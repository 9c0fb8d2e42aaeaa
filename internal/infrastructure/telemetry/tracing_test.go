package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func newRecordingProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return provider, recorder
}

func TestStartServiceSpan(t *testing.T) {
	provider, recorder := newRecordingProvider(t)
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	_, span := StartServiceSpan(context.Background(), "dashboard", "monthly_summary",
		WithAttribute(SpanAttrYear, 2026),
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "dashboard.monthly_summary", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int(SpanAttrYear, 2026))
}

func TestRecordError(t *testing.T) {
	provider, recorder := newRecordingProvider(t)

	_, span := provider.Tracer(TracerName).Start(context.Background(), "op")
	RecordError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestSetAttributes(t *testing.T) {
	provider, recorder := newRecordingProvider(t)

	_, span := provider.Tracer(TracerName).Start(context.Background(), "op")
	id := uuid.New()
	SetAttributes(span,
		SpanAttrScenarioID, id,
		SpanAttrYear, 2026,
		SpanAttrRowCount, int64(42),
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.String(SpanAttrScenarioID, id.String()))
	assert.Contains(t, attrs, attribute.Int(SpanAttrYear, 2026))
	assert.Contains(t, attrs, attribute.Int64(SpanAttrRowCount, 42))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.NoError(t, tp.ForceFlush(context.Background()))
}

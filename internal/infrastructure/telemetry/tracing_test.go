package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/invoicing/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory span recorder as the global provider.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "invoice", "create",
		telemetry.SpanAttrYear, 2024,
		telemetry.SpanAttrItemCount, int64(3),
		telemetry.SpanAttrCurrency, "USD",
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoice.create", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, int64(2024), attrs[telemetry.SpanAttrYear].AsInt64())
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrItemCount].AsInt64())
	assert.Equal(t, "USD", attrs[telemetry.SpanAttrCurrency].AsString())
}

func TestSetAttributes_SkipsMalformedPairs(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "invoice", "get")
	telemetry.SetAttributes(span,
		42, "ignored",
		telemetry.SpanAttrIdempotent, true,
		"ratio", 0.5,
		"dangling",
	)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Len(t, attrs, 2)
	assert.True(t, attrs[telemetry.SpanAttrIdempotent].AsBool())
	assert.Equal(t, 0.5, attrs["ratio"].AsFloat64())
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "invoice", "delete")
	telemetry.RecordError(span, errors.New("boom"))
	telemetry.RecordError(span, nil)
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "boom", ended.Status().Description)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "exception", ended.Events()[0].Name)
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "invoice", "create")
	telemetry.AddEvent(span, "number_assigned", telemetry.SpanAttrInvoiceNumber, "INV-1000-24-0001")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "number_assigned", events[0].Name)
	assert.Equal(t, "INV-1000-24-0001", attrMap(events[0].Attributes)[telemetry.SpanAttrInvoiceNumber].AsString())
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}

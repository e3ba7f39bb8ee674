package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(2).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "ParentBased")
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Settings{ServiceName: "invoicing"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.TracingEnabled())
	assert.False(t, p.MetricsEnabled())
	assert.False(t, p.LogsEnabled())
	assert.NotNil(t, p.Meter("invoicing"))
	assert.False(t, p.LogCore(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))

	p.EnableSpanProfiles()
	assert.False(t, p.SpanProfilesEnabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_EnableSpanProfilesOnce(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	tp := sdktrace.NewTracerProvider()
	p := &Providers{logger: zaptest.NewLogger(t), traces: tp}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	p.EnableSpanProfiles()
	p.EnableSpanProfiles()

	assert.True(t, p.SpanProfilesEnabled())
	_, unwrapped := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.False(t, unwrapped)
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("invoice_id", "abc"))

	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["invoice_id"])
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
}

func TestProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "invoicing"}, zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Route":          "/api/v1/invoices/:id",
		"method":         "GET",
		"invoice_number": "INV-1000-24-0001",
		"empty":          "",
		"Op-Name":        strings.Repeat("x", MaxLabelValueLength+10),
	})

	assert.Equal(t, []string{
		"method", "GET",
		"op_name", strings.Repeat("x", MaxLabelValueLength),
		"route", "/api/v1/invoices/:id",
	}, pairs)
}

func TestWithProfilingLabels_RunsFunction(t *testing.T) {
	called := 0
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called++ })
	WithProfilingLabels(context.Background(), HTTPRequestLabels("invoices", "/api/v1/invoices", "POST"), func(context.Context) { called++ })
	assert.Equal(t, 2, called)
}

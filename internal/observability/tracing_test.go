package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewTracerProvider_LogsFinishedSpans(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tp := NewTracerProvider(zap.New(core))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	ctx, parent := tracer.Start(context.Background(), "roadmap.Invoke")
	_, child := tracer.Start(ctx, "llm.tool.google_search")
	child.SetAttributes(
		attribute.Bool("tool.ok", true),
		attribute.Int("tool.uses", 2),
		attribute.String("llm.model", "gemini-2.5-flash"),
	)
	child.End()
	parent.SetStatus(codes.Error, "quota exceeded")
	parent.End()

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "span llm.tool.google_search", entries[0].Message)
	childFields := entries[0].ContextMap()
	assert.Equal(t, true, childFields["tool.ok"])
	assert.Equal(t, int64(2), childFields["tool.uses"])
	assert.Equal(t, "gemini-2.5-flash", childFields["llm.model"])
	assert.Equal(t, parent.SpanContext().SpanID().String(), childFields["parent_span_id"])

	assert.Equal(t, "span roadmap.Invoke", entries[1].Message)
	parentFields := entries[1].ContextMap()
	assert.Equal(t, "Error", parentFields["status"])
	assert.Equal(t, "quota exceeded", parentFields["status_description"])
	assert.NotContains(t, parentFields, "parent_span_id")
}

func TestInstallTracing_RestoresProvider(t *testing.T) {
	previous := otel.GetTracerProvider()

	shutdown := InstallTracing(zap.NewNop())
	assert.NotSame(t, previous, otel.GetTracerProvider())

	require.NoError(t, shutdown(context.Background()))
	assert.Equal(t, previous, otel.GetTracerProvider())
}

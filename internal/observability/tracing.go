package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/jonathan/roadmap-agent/internal/logging"
)

// NewTracerProvider returns a provider that reports every finished span to logger at debug level.
func NewTracerProvider(logger *zap.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(&spanLogger{logger: logging.OrNop(logger)}),
	)
}

// InstallTracing sets a logging tracer provider as the global provider.
// The returned function flushes and restores the previous provider.
// Tracers cached from otel.Tracer before the first install stay bound to that
// provider, so instrumented packages look tracers up when a span starts.
func InstallTracing(logger *zap.Logger) func(context.Context) error {
	previous := otel.GetTracerProvider()
	tp := NewTracerProvider(logger)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		otel.SetTracerProvider(previous)
		return tp.Shutdown(ctx)
	}
}

// spanLogger is a SpanProcessor that logs spans as they end
type spanLogger struct {
	logger *zap.Logger
}

func (s *spanLogger) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (s *spanLogger) OnEnd(span sdktrace.ReadOnlySpan) {
	fields := []zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
		zap.Duration("duration", span.EndTime().Sub(span.StartTime())),
		zap.String("status", span.Status().Code.String()),
	}
	if span.Parent().IsValid() {
		fields = append(fields, zap.String("parent_span_id", span.Parent().SpanID().String()))
	}
	for _, attr := range span.Attributes() {
		fields = append(fields, attributeField(attr))
	}
	if desc := span.Status().Description; desc != "" {
		fields = append(fields, zap.String("status_description", desc))
	}

	s.logger.Debug("span "+span.Name(), fields...)
}

func (s *spanLogger) Shutdown(context.Context) error { return nil }

func (s *spanLogger) ForceFlush(context.Context) error { return nil }

func attributeField(kv attribute.KeyValue) zap.Field {
	key := string(kv.Key)
	switch kv.Value.Type() {
	case attribute.BOOL:
		return zap.Bool(key, kv.Value.AsBool())
	case attribute.INT64:
		return zap.Int64(key, kv.Value.AsInt64())
	case attribute.FLOAT64:
		return zap.Float64(key, kv.Value.AsFloat64())
	default:
		return zap.String(key, kv.Value.Emit())
	}
}

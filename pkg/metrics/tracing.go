package metrics

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// spanLogger exports ended spans as log entries. Failed spans are logged at
// warn level, the rest at debug level.
type spanLogger struct {
	log *zap.Logger
}

func (e spanLogger) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := make([]zap.Field, 0, 3+len(s.Attributes()))
		fields = append(fields,
			zap.Stringer("trace_id", s.SpanContext().TraceID()),
			zap.Stringer("span_id", s.SpanContext().SpanID()),
			zap.Duration("duration", s.EndTime().Sub(s.StartTime())),
		)
		for _, kv := range s.Attributes() {
			fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
		}

		if s.Status().Code == codes.Error {
			e.log.Warn(s.Name(), append(fields, zap.String("error", s.Status().Description))...)
			continue
		}
		e.log.Debug(s.Name(), fields...)
	}

	return nil
}

func (spanLogger) Shutdown(context.Context) error { return nil }

// NewTracerProvider returns a tracer provider batching every ended span into
// log. Extra options are applied after the exporter.
func NewTracerProvider(log *zap.Logger, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithBatcher(spanLogger{log: log})}, opts...)

	return sdktrace.NewTracerProvider(opts...)
}

package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("sports-sync/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan traces admin handlers only. Middleware and response helpers run
// inside the otelhttp server span already.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	op, ok := handlerOperation(name)
	if !ok || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attribute.String("admin.operation", op)))
}

func handlerOperation(name string) (string, bool) {
	op, ok := strings.CutPrefix(name, handlerSpanPrefix)
	return op, ok && op != ""
}

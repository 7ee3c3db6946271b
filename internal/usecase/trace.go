package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer   = otel.Tracer("sports-sync/internal/usecase")
	noopSpan = trace.SpanFromContext(context.Background())
)

// startUsecaseSpan opens a child span only under a traced parent, so CLI and
// scheduler runs without a root span stay untraced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noopSpan
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// annotateRun copies a finished run's counters onto the active span.
func annotateRun(ctx context.Context, result SyncResult, runErr error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("sync.run_id", result.RunID),
		attribute.String("sync.entity_type", result.EntityType),
		attribute.String("sync.scope", result.Scope),
		attribute.String("sync.status", result.Status),
		attribute.Int("sync.created", result.Created),
		attribute.Int("sync.updated", result.Updated),
		attribute.Int("sync.unchanged", result.Unchanged),
		attribute.Int("sync.failed", result.Failed),
	)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}
}

package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
)

// TracerName names the tracer used for service spans
const TracerName = "storehub-backend"

// StartServiceSpan starts an internal span named "{service}.{method}". The
// active store, when present, is recorded as the store.id attribute.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "store", "create")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if storeID, ok := tenancy.ActiveStore(ctx); ok {
		attrs = append(attrs, attribute.Int64("store.id", int64(storeID)))
	}
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records err on span and ends it. Expected domain failures
// (validation, not found, access denied) leave the status unset.
func EndSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	var domainErr *shared.DomainError
	var validationErr *shared.ValidationError
	if errors.As(err, &domainErr) || errors.As(err, &validationErr) {
		span.SetAttributes(attribute.String("error.kind", "domain"))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceID returns the hex trace id of the span in ctx, or ""
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

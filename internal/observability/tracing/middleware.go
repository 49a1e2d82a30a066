package tracing

import (
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"studyhub/internal/handler/http/pathutil"
	"studyhub/internal/handler/http/responsewriter"
)

// TraceIDHeader echoes the request's trace id to the client.
const TraceIDHeader = "X-Trace-Id"

// Middleware traces requests with the global tracer provider.
func Middleware(next http.Handler) http.Handler {
	return NewMiddleware(otel.GetTracerProvider())(next)
}

// NewMiddleware returns tracing middleware bound to tp. It continues an
// incoming W3C trace context, starts a server span named after the method
// and normalized path, and marks 5xx responses as errors.
func NewMiddleware(tp trace.TracerProvider) func(http.Handler) http.Handler {
	tracer := tp.Tracer(TracerName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			route := pathutil.NormalizePath(r.URL.Path)
			ctx, span := tracer.Start(ctx, r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.route", route),
				),
			)
			defer span.End()

			if sc := span.SpanContext(); sc.HasTraceID() {
				w.Header().Set(TraceIDHeader, sc.TraceID().String())
			}

			rw := responsewriter.Wrap(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			status := rw.StatusCode()
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, strconv.Itoa(status))
			}
		})
	}
}

// Package tracing wires OpenTelemetry into the API: a process-wide tracer
// provider, W3C trace context propagation and an HTTP server middleware.
//
//	shutdown := tracing.Init()
//	defer func() { _ = shutdown(context.Background()) }()
//
//	ctx, span := tracing.GetTracer().Start(ctx, "report.Submit")
//	defer span.End()
//
// No exporter is configured; spans still carry ids that are propagated to
// logs and the X-Trace-Id response header.
package tracing

// Package observability groups the logging and tracing infrastructure of
// the studyhub API. Prometheus metrics are registered next to the code they
// measure (HTTP middleware, auth, report submission and notification).
package observability

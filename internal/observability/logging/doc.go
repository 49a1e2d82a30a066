// Package logging builds the JSON slog logger used across studyhub.
//
// Records logged with a *Context method pick up the request_id stored by
// the requestid middleware and the active OpenTelemetry trace_id, so use
// case code can log without threading ids by hand:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//	logger.InfoContext(ctx, "report persisted", slog.Int64("report_id", id))
package logging

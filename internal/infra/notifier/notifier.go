// Package notifier delivers moderation notifications about submitted content
// reports. Every delivery mechanism implements Notifier so the report flow can
// swap them through configuration without knowing which one is active.
//
// Implementations in this package:
//   - LogNotifier appends human-readable records to a local file
//   - WebhookNotifier posts a chat-style embed to a webhook URL
//   - NoOpNotifier accepts everything and does nothing
package notifier

import (
	"context"
	"maps"
)

// Detail keys carried in a report notification.
const (
	KeyReporterName   = "reporter_name"
	KeyContentID      = "content_id"
	KeyContentTitle   = "content_title"
	KeyContentType    = "content_type"
	KeyReportID       = "report_id"
	KeyReasonCategory = "reason_category"
	KeyReasonDetails  = "reason_details"
	KeyContentLink    = "content_link"
	KeyReportLink     = "report_link"
)

// Details is the structured payload accompanying a notification message.
// Values are JSON-encodable scalars.
type Details map[string]any

// Clone returns a shallow copy. A nil Details clones to an empty map.
func (d Details) Clone() Details {
	out := make(Details, len(d))
	maps.Copy(out, d)
	return out
}

// String returns the value under key rendered as text, or "" when missing.
func (d Details) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return formatScalar(t)
	}
}

// Notifier is an interface for sending report notifications.
type Notifier interface {
	// Name identifies the implementation in logs and metrics.
	Name() string

	// Notify delivers message and details. It returns true on delivery and
	// false on any ordinary failure. It must not panic and the caller does
	// not retry.
	Notify(ctx context.Context, message string, details Details) bool
}

// Package report provides the HTTP endpoint for submitting content reports.
package report

// Form field names accepted by POST /reports.
const (
	FieldContentID      = "content_id"
	FieldReasonCategory = "reason_category"
	FieldReasonDetails  = "reason_details"
)

// SubmitResponse is the body of a successful submission.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed submission.
type ErrorResponse struct {
	Error string `json:"error"`
}

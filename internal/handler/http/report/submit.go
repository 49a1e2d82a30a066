package report

import (
	"context"
	"log/slog"
	"mime"
	"net/http"

	"studyhub/internal/handler/http/auth"
	"studyhub/internal/handler/http/requestid"
	"studyhub/internal/handler/http/respond"
	reportUC "studyhub/internal/usecase/report"
)

const (
	// maxMultipartMemory caps the in-memory part of a multipart form.
	maxMultipartMemory = 32 << 10

	successMessage = "Report submitted successfully"
	invalidForm    = "invalid form body"
)

// Submitter is the use case behind SubmitHandler.
type Submitter interface {
	Submit(ctx context.Context, rc reportUC.RequestContext, in reportUC.SubmitInput) (*reportUC.Result, error)
}

// SubmitHandler accepts POST /reports with url-encoded or multipart form
// fields content_id, reason_category and reason_details.
type SubmitHandler struct {
	Svc    Submitter
	Logger *slog.Logger
}

func (h SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc := requestContext(r)

	var in reportUC.SubmitInput
	if r.Method == http.MethodPost {
		if err := parseForm(r); err != nil {
			h.logger().WarnContext(r.Context(), "failed to parse report form",
				slog.String("request_id", requestid.FromContext(r.Context())),
				slog.Any("error", err))
			respond.JSON(w, http.StatusBadRequest, ErrorResponse{Error: invalidForm})
			return
		}
		if r.MultipartForm != nil {
			defer func() { _ = r.MultipartForm.RemoveAll() }()
		}
		in = reportUC.SubmitInput{
			ContentID:      r.PostForm.Get(FieldContentID),
			ReasonCategory: r.PostForm.Get(FieldReasonCategory),
			ReasonDetails:  r.PostForm.Get(FieldReasonDetails),
		}
	}

	res, err := h.Svc.Submit(r.Context(), rc, in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger().InfoContext(r.Context(), "report submission accepted",
		slog.String("request_id", requestid.FromContext(r.Context())),
		slog.Int64("report_id", res.Report.ID),
		slog.Bool("notified", res.Notified),
		slog.String("notifier", res.Notifier))
	respond.JSON(w, http.StatusOK, SubmitResponse{Success: true, Message: successMessage})
}

func (h SubmitHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// requestContext builds the caller identity from the authenticated session.
// A request without a session yields UserID 0, which the use case rejects.
func requestContext(r *http.Request) reportUC.RequestContext {
	rc := reportUC.RequestContext{Method: r.Method}
	if s, ok := auth.SessionFromContext(r.Context()); ok {
		rc.UserID = s.UserID
		rc.DisplayName = s.Name
		rc.TenantID = s.TenantID
	}
	return rc
}

func parseForm(r *http.Request) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxMultipartMemory)
	}
	return r.ParseForm()
}

func writeError(w http.ResponseWriter, err error) {
	code := reportUC.StatusCode(err)
	if reportUC.KindOf(err) == reportUC.KindMethodNotAllowed {
		w.Header().Set("Allow", http.MethodPost)
	}
	respond.SafeAppError(w, code, respond.NewAppError(code, reportUC.PublicMessage(err), err))
}

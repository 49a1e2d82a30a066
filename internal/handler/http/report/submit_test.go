package report_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/domain/entity"
	"studyhub/internal/handler/http/auth"
	"studyhub/internal/handler/http/report"
	reportUC "studyhub/internal/usecase/report"
)

type stubSubmitter struct {
	calls int
	rc    reportUC.RequestContext
	in    reportUC.SubmitInput
	res   *reportUC.Result
	err   error
}

func (s *stubSubmitter) Submit(_ context.Context, rc reportUC.RequestContext, in reportUC.SubmitInput) (*reportUC.Result, error) {
	s.calls++
	s.rc = rc
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	if s.res != nil {
		return s.res, nil
	}
	return &reportUC.Result{
		Report:   &entity.Report{ID: 101, CreatedAt: time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)},
		Notified: true,
		Notifier: "log",
	}, nil
}

func withSession(r *http.Request, s auth.Session) *http.Request {
	return r.WithContext(auth.WithSession(r.Context(), s))
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSubmitHandler_URLEncoded(t *testing.T) {
	stub := &stubSubmitter{}
	h := report.SubmitHandler{Svc: stub}

	req := formRequest(url.Values{
		report.FieldContentID:      {"42"},
		report.FieldReasonCategory: {"spam"},
		report.FieldReasonDetails:  {"spam links in every card"},
	})
	req = withSession(req, auth.Session{UserID: 7, Name: "Aiko", TenantID: "univ-tokyo"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Report submitted successfully"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.Equal(t, 1, stub.calls)
	assert.Equal(t, reportUC.RequestContext{
		Method: http.MethodPost, UserID: 7, DisplayName: "Aiko", TenantID: "univ-tokyo",
	}, stub.rc)
	assert.Equal(t, reportUC.SubmitInput{
		ContentID: "42", ReasonCategory: "spam", ReasonDetails: "spam links in every card",
	}, stub.in)
}

func TestSubmitHandler_Multipart(t *testing.T) {
	stub := &stubSubmitter{}
	h := report.SubmitHandler{Svc: stub}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField(report.FieldContentID, "43"))
	require.NoError(t, mw.WriteField(report.FieldReasonCategory, "copyright"))
	require.NoError(t, mw.WriteField(report.FieldReasonDetails, "Copied from a textbook, 第3章"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/reports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withSession(req, auth.Session{UserID: 9})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reportUC.SubmitInput{
		ContentID: "43", ReasonCategory: "copyright", ReasonDetails: "Copied from a textbook, 第3章",
	}, stub.in)
}

func TestSubmitHandler_QueryStringIgnored(t *testing.T) {
	stub := &stubSubmitter{}
	h := report.SubmitHandler{Svc: stub}

	req := httptest.NewRequest(http.MethodPost, "/reports?content_id=99&reason_category=spam",
		strings.NewReader(url.Values{report.FieldContentID: {"42"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withSession(req, auth.Session{UserID: 7})

	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "42", stub.in.ContentID)
	assert.Empty(t, stub.in.ReasonCategory)
}

func TestSubmitHandler_NoSessionPassesZeroUser(t *testing.T) {
	stub := &stubSubmitter{err: &reportUC.Error{Kind: reportUC.KindUnauthorized, Message: "authentication required"}}
	h := report.SubmitHandler{Svc: stub}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, formRequest(url.Values{report.FieldContentID: {"42"}}))

	assert.Equal(t, int64(0), stub.rc.UserID)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
}

func TestSubmitHandler_InvalidForm(t *testing.T) {
	stub := &stubSubmitter{}
	h := report.SubmitHandler{Svc: stub}

	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("content_id=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(req, auth.Session{UserID: 7}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid form body"}`, rec.Body.String())
	assert.Equal(t, 0, stub.calls)
}

func TestSubmitHandler_MultipartWithoutBoundary(t *testing.T) {
	stub := &stubSubmitter{}
	h := report.SubmitHandler{Svc: stub}

	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(req, auth.Session{UserID: 7}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, stub.calls)
}

func TestSubmitHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
		expectAllow  bool
	}{
		{
			name:         "validation",
			err:          &reportUC.Error{Kind: reportUC.KindValidation, Message: "content_id must be a positive integer"},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"content_id must be a positive integer"}`,
		},
		{
			name:         "not found",
			err:          &reportUC.Error{Kind: reportUC.KindNotFound, Message: "content not found", Err: entity.ErrNotFound},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"content not found"}`,
		},
		{
			name:         "persistence hides cause",
			err:          &reportUC.Error{Kind: reportUC.KindPersistence, Message: "failed to submit report", Err: errors.New("pq: deadlock detected")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"failed to submit report"}`,
		},
		{
			name:         "method not allowed",
			err:          &reportUC.Error{Kind: reportUC.KindMethodNotAllowed, Message: "method not allowed"},
			expectedCode: http.StatusMethodNotAllowed,
			expectedBody: `{"error":"method not allowed"}`,
			expectAllow:  true,
		},
		{
			name:         "unknown error",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"failed to submit report"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := report.SubmitHandler{Svc: &stubSubmitter{err: tt.err}}

			req := withSession(formRequest(url.Values{report.FieldContentID: {"42"}}), auth.Session{UserID: 7})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "deadlock")
			if tt.expectAllow {
				assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
			}
		})
	}
}

func TestSubmitHandler_NotifiedFalseStillSucceeds(t *testing.T) {
	stub := &stubSubmitter{res: &reportUC.Result{Report: &entity.Report{ID: 5}, Notified: false, Notifier: "webhook"}}
	h := report.SubmitHandler{Svc: stub}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(formRequest(url.Values{report.FieldContentID: {"42"}}), auth.Session{UserID: 7}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Report submitted successfully"}`, rec.Body.String())
}

// failingBody fails the test if anything reads it.
type failingBody struct{ t *testing.T }

func (b failingBody) Read([]byte) (int, error) {
	b.t.Error("request body must not be read")
	return 0, errors.New("unexpected read")
}

func TestPostOnly(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead} {
		t.Run(method, func(t *testing.T) {
			called := false
			h := report.PostOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

			req := httptest.NewRequest(method, "/reports", failingBody{t})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
		})
	}
}

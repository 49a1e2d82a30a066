// Package respond writes JSON responses and keeps internal error details out
// of them.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// internalErrorMessage is returned for every error that is not known to be safe.
const internalErrorMessage = "internal server error"

// safeErrorFragments mark messages that describe a client mistake and carry no
// internal detail.
var safeErrorFragments = []string{
	"required",
	"invalid",
	"not found",
	"not allowed",
	"must be",
	"too long",
	"cannot be",
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": err.Error()} with the given status code.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// SafeError returns the error message to the client only when it reads like
// a validation failure and the status is below 500. Anything else is logged
// (sanitized) and replaced with a generic message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	if code < http.StatusInternalServerError && isSafeMessage(msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": internalErrorMessage})
}

func isSafeMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, fragment := range safeErrorFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// AppError pairs a client-facing message and status with the internal cause.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// SafeAppError writes the UserMsg of an *AppError found in err's chain. Server
// side failures are logged with their sanitized cause. Errors that are not
// AppErrors fall back to SafeError with code.
func SafeAppError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		SafeError(w, code, err)
		return
	}

	if appErr.Err != nil && appErr.Code >= http.StatusInternalServerError {
		slog.Default().Error("application error",
			slog.String("status", http.StatusText(appErr.Code)),
			slog.Int("code", appErr.Code),
			slog.String("user_message", appErr.UserMsg),
			slog.String("error", SanitizeError(appErr.Err)))
	}
	JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
}

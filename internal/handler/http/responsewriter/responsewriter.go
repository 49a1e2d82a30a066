// Package responsewriter records the status code and body size of a response
// for the logging, metrics and tracing middleware.
package responsewriter

import "net/http"

// ResponseWriter remembers the first status sent and counts body bytes.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written int
	sent    bool
}

// Wrap starts with an implicit 200, which is what net/http sends when a
// handler writes a body without calling WriteHeader.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader forwards only the first call.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.sent {
		return
	}
	w.status = code
	w.sent = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.sent {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

func (w *ResponseWriter) StatusCode() int { return w.status }

func (w *ResponseWriter) BytesWritten() int { return w.written }

// HeaderSent reports whether the status line has gone out.
func (w *ResponseWriter) HeaderSent() bool { return w.sent }

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Flush forwards to the underlying writer when it supports http.Flusher.
func (w *ResponseWriter) Flush() {
	if !w.sent {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

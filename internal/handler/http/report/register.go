package report

import (
	"net/http"

	"studyhub/internal/handler/http/respond"
)

// Register mounts POST /reports. The method check runs before authentication
// so any other method gets 405 regardless of credentials.
func Register(mux *http.ServeMux, h SubmitHandler, authn func(http.Handler) http.Handler) {
	mux.Handle("/reports", PostOnly(authn(h)))
}

// PostOnly answers every non-POST request with 405 and an Allow header
// without reading the body.
func PostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			respond.JSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Package auth authenticates API callers from an HS256 bearer token and
// exposes the resulting Session to handlers.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studyhub/internal/handler/http/requestid"
	"studyhub/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxSession ctxKey = "session"

// Session identifies the authenticated caller of a request.
type Session struct {
	UserID   int64
	Name     string
	TenantID string
}

// SessionFromContext returns the session stored by the middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxSession).(Session)
	return s, ok
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxSession, s)
}

var (
	errMissingToken   = errors.New("missing bearer token")
	errInvalidToken   = errors.New("invalid token")
	errTokenExpired   = errors.New("token expired")
	errInvalidSubject = errors.New("invalid sub claim")
)

type sessionClaims struct {
	Name     string `json:"name,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator validates bearer tokens signed with a shared HS256 secret.
type Authenticator struct {
	secret []byte
	now    func() time.Time
	logger *slog.Logger
}

// Option customises an Authenticator.
type Option func(*Authenticator)

// WithClock overrides the time used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithLogger sets the logger used for rejected requests.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) { a.logger = l }
}

// NewAuthenticator returns an Authenticator for secret.
func NewAuthenticator(secret []byte, opts ...Option) *Authenticator {
	a := &Authenticator{
		secret: secret,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Middleware rejects requests without a valid token with 401 and stores the
// caller's Session in the request context otherwise.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		session, err := a.Authenticate(r.Header.Get("Authorization"))
		recordAuthDuration(time.Since(start).Seconds())
		if err != nil {
			reason := failureReason(err)
			recordAuthResult("failure", reason)
			a.logger.WarnContext(r.Context(), "authentication failed",
				slog.String("request_id", requestid.FromContext(r.Context())),
				slog.String("reason", reason),
				slog.String("path", r.URL.Path))
			w.Header().Set("WWW-Authenticate", `Bearer realm="studyhub"`)
			respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		recordAuthResult("success", "")
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// Authenticate parses an Authorization header value into a Session.
func (a *Authenticator) Authenticate(header string) (Session, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return Session{}, errMissingToken
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if raw == "" {
		return Session{}, errMissingToken
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Session{}, errTokenExpired
	case err != nil:
		return Session{}, errInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Session{}, errInvalidSubject
	}

	return Session{
		UserID:   userID,
		Name:     strings.TrimSpace(claims.Name),
		TenantID: claims.TenantID,
	}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, errMissingToken):
		return "missing_token"
	case errors.Is(err, errTokenExpired):
		return "expired"
	case errors.Is(err, errInvalidSubject):
		return "invalid_subject"
	default:
		return "invalid_token"
	}
}

package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - SessionToken / token: The bearer credential issued at login and tracked in user_sessions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/stratatrack/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatrack/internal/app/system/network"
	"github.com/dalemusser/stratatrack/internal/app/system/timeouts"
	"github.com/dalemusser/stratatrack/internal/app/system/tracking"
	"github.com/dalemusser/stratatrack/internal/domain/models"
	"go.uber.org/zap"
)

// SessionResolver looks up the active session for a bearer token.
type SessionResolver interface {
	ActiveSession(ctx context.Context, token string) (*models.Session, error)
}

// SessionToucher records activity on a session. Failures are the toucher's
// concern; the request proceeds either way.
type SessionToucher interface {
	TouchSession(ctx context.Context, token string) bool
}

type ctxKey string

const currentSessionKey ctxKey = "currentSession"

// CurrentSession returns the session & "found?" flag from the request context.
func CurrentSession(r *http.Request) (*models.Session, bool) {
	s, ok := r.Context().Value(currentSessionKey).(*models.Session)
	return s, ok
}

func withSession(r *http.Request, s *models.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentSessionKey, s))
}

// WithTestSession injects s into the request context, bypassing the lookup.
func WithTestSession(r *http.Request, s *models.Session) *http.Request {
	return withSession(r, s)
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SessionAuth returns middleware that authenticates end users by the session
// token they were issued at login. An active session is placed in the
// request context and touched so reporting reads count as activity.
//
// A missing, unknown or closed token yields 401. A storage failure yields
// 503 because the caller cannot be identified.
func SessionAuth(resolver SessionResolver, toucher SessionToucher, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				jsonutil.Unauthorized(w, "missing bearer session token")
				return
			}

			ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), logger, "session lookup")
			sess, err := resolver.ActiveSession(ctx, token)
			cancel()
			switch {
			case errors.Is(err, tracking.ErrNoActiveSession):
				logger.Debug("session rejected: no active session",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", network.GetClientIP(r)))
				jsonutil.Unauthorized(w, "session is not active")
				return
			case err != nil:
				logger.Error("session lookup failed", zap.Error(err), zap.String("path", r.URL.Path))
				jsonutil.ServiceUnavailable(w, "session lookup unavailable")
				return
			}

			if toucher != nil {
				tctx, tcancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), logger, "touch session")
				toucher.TouchSession(tctx, token)
				tcancel()
			}

			next.ServeHTTP(w, withSession(r, sess))
		})
	}
}

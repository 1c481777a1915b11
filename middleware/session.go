package middleware

import (
	"net/http"
	"strings"

	"github.com/upb/codeintervu-admin/session"
	"github.com/upb/codeintervu-admin/utils"
	"go.uber.org/zap"
)

// SessionMiddleware gates protected routes on the local session guard
type SessionMiddleware struct {
	guard     *session.Guard
	loginPath string
	logger    *zap.Logger
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(guard *session.Guard, loginPath string, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		guard:     guard,
		loginPath: loginPath,
		logger:    logger,
	}
}

// RequireSession renders the protected route only when the guard allows it.
// Browsers are redirected to the login view; API callers get a 401.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		res := m.guard.Check(ctx)
		if res.Decision != session.Allow {
			m.logger.Info("session denied",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path),
				zap.String("state", string(res.State)),
				zap.Bool("evicted", res.Evicted))

			if res.State == session.StateUnavailable {
				_ = utils.WriteError(w, http.StatusServiceUnavailable, "Credential storage unavailable", nil)
				return
			}
			if wantsHTML(r) {
				http.Redirect(w, r, m.loginPath, http.StatusFound)
				return
			}
			_ = utils.WriteUnauthorized(w, "Session expired", map[string]interface{}{
				"state":     string(res.State),
				"login_url": m.loginPath,
			})
			return
		}

		m.logger.Debug("session allowed",
			zap.String("request_id", requestID),
			zap.String("subject", res.Claims.Subject()))

		next.ServeHTTP(w, r.WithContext(WithClaims(ctx, res.Claims)))
	})
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

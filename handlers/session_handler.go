package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/upb/codeintervu-admin/app"
	"github.com/upb/codeintervu-admin/client"
	"github.com/upb/codeintervu-admin/middleware"
	"github.com/upb/codeintervu-admin/navigation"
	"github.com/upb/codeintervu-admin/session"
	"github.com/upb/codeintervu-admin/utils"
	"go.uber.org/zap"
)

// LoginBody is the form posted to the console's login endpoint
type LoginBody struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

// SessionResponse describes the current credential and view
type SessionResponse struct {
	Authenticated     bool             `json:"authenticated"`
	State             string           `json:"state"`
	Subject           string           `json:"subject,omitempty"`
	Role              string           `json:"role,omitempty"`
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
	View              navigation.Visit `json:"view"`
	NavigationPending bool             `json:"navigation_pending"`
}

// LoginViewHandler serves the login view. It is always public.
func LoginViewHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"view":   "login",
			"action": deps.Config.Session.LoginPath,
			"fields": []string{"username", "password"},
		})
	}
}

// HomeViewHandler serves the protected home view
func HomeViewHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaimsFromContext(r.Context())
		if claims == nil {
			_ = utils.WriteUnauthorized(w, "", nil)
			return
		}
		_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"view":       "home",
			"subject":    claims.Subject(),
			"expires_at": claims.ExpiresAt.Time,
		})
	}
}

// LoginHandler exchanges username and password for a credential
func LoginHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetRequestIDFromContext(ctx)

		var body LoginBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(&body); err != nil {
			var vErr *utils.ValidationError
			if errors.As(err, &vErr) {
				_ = utils.WriteBadRequest(w, vErr.Message, vErr.Details())
				return
			}
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		claims, err := deps.Client.Login(ctx, body.Username, body.Password)
		if err != nil {
			deps.Logger.Warn("login failed",
				zap.String("request_id", requestID),
				zap.String("username", body.Username),
				zap.Error(err))

			switch {
			case client.IsInvalidLogin(err):
				_ = utils.WriteUnauthorized(w, "Invalid username or password", nil)
			case errors.Is(err, client.ErrInvalidRequest):
				_ = utils.WriteBadRequest(w, "Invalid login", nil)
			case errors.Is(err, client.ErrTransport):
				_ = utils.WriteBadGateway(w, "")
			case errors.Is(err, client.ErrRequestFailed):
				_ = utils.WriteBadGateway(w, err.Error())
			default:
				_ = utils.WriteInternalServerError(w, "")
			}
			return
		}

		expiresAt := claims.ExpiresAt.Time
		_ = utils.WriteJSON(w, http.StatusOK, SessionResponse{
			Authenticated: true,
			State:         string(session.StateValid),
			Subject:       claims.Subject(),
			Role:          claims.Role,
			ExpiresAt:     &expiresAt,
			View:          deps.Shell.Current(),
		})
	}
}

// LogoutHandler evicts the credential and moves to the login view
func LogoutHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Client.Logout(r.Context()); err != nil {
			deps.Logger.Error("logout failed",
				zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "Failed to clear credential")
			return
		}
		_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "logged_out",
			"redirect": deps.Config.Session.LoginPath,
		})
	}
}

// SessionHandler evaluates the stored credential on demand
func SessionHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := deps.Guard.Check(r.Context())

		resp := SessionResponse{
			Authenticated:     res.Decision == session.Allow,
			State:             string(res.State),
			View:              deps.Shell.Current(),
			NavigationPending: deps.Scheduler.Pending(),
		}
		if res.Claims != nil {
			expiresAt := res.Claims.ExpiresAt.Time
			resp.Subject = res.Claims.Subject()
			resp.Role = res.Claims.Role
			resp.ExpiresAt = &expiresAt
		}

		if res.State == session.StateUnavailable {
			_ = utils.WriteError(w, http.StatusServiceUnavailable, "Credential storage unavailable", nil)
			return
		}
		_ = utils.WriteJSON(w, http.StatusOK, resp)
	}
}

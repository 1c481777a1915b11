package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/codeintervu-admin/app"
	"github.com/upb/codeintervu-admin/utils"
	"go.uber.org/zap"
)

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck reports whether the credential storage is reachable
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "ready"

		switch {
		case deps.Store == nil:
			status = "not_ready"
			checks["storage"] = "not_initialized"
		default:
			if err := deps.Ping(ctx); err != nil {
				status = "not_ready"
				checks["storage"] = "unhealthy"
				deps.Logger.Error("storage health check failed", zap.Error(err))
			} else {
				checks["storage"] = "healthy"
			}
		}

		code := http.StatusOK
		if status != "ready" {
			code = http.StatusServiceUnavailable
		}
		_ = utils.WriteJSON(w, code, map[string]interface{}{
			"status":  status,
			"driver":  deps.Config.Storage.Driver,
			"checks":  checks,
			"backend": deps.Config.Backend.BaseURL,
		})
	}
}

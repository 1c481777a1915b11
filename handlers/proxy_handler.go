package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/upb/codeintervu-admin/app"
	"github.com/upb/codeintervu-admin/client"
	"github.com/upb/codeintervu-admin/middleware"
	"github.com/upb/codeintervu-admin/utils"
	"go.uber.org/zap"
)

// ProxyPrefix is the console path prefix forwarded to the backend
const ProxyPrefix = "/api"

const maxProxyBodyBytes = 1 << 20

// ProxyHandler forwards /api/* to the backend through the request client.
// The stored credential is attached and a 401 ends the session.
func ProxyHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetRequestIDFromContext(ctx)

		path := strings.TrimPrefix(r.URL.Path, ProxyPrefix)
		if path == "" {
			path = "/"
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBodyBytes))
		if err != nil {
			_ = utils.WriteBadRequest(w, "Failed to read request body", nil)
			return
		}

		req := &client.Request{
			Method: r.Method,
			Path:   path,
			Query:  r.URL.Query(),
		}
		if len(body) > 0 {
			req.Body = json.RawMessage(body)
		}
		if requestID != "" {
			req.Headers = map[string]string{client.HeaderRequestID: requestID}
		}

		resp, err := deps.Client.Do(ctx, req)
		if err != nil {
			writeProxyError(w, deps, requestID, err)
			return
		}

		_ = utils.WriteRaw(w, resp.StatusCode, resp.Header.Get("Content-Type"), resp.Body)
	}
}

func writeProxyError(w http.ResponseWriter, deps *app.Dependencies, requestID string, err error) {
	var reqErr *client.Error
	if !errors.As(err, &reqErr) {
		deps.Logger.Error("proxy request failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	switch reqErr.Kind {
	case client.KindServerRejected:
		_ = utils.WriteUnauthorized(w, "Session expired", map[string]interface{}{
			"login_url": deps.Config.Session.LoginPath,
		})

	case client.KindRequestFailed:
		if len(reqErr.Body) == 0 || !json.Valid(reqErr.Body) {
			_ = utils.WriteError(w, reqErr.StatusCode, reqErr.Message, nil)
			return
		}
		_ = utils.WriteRaw(w, reqErr.StatusCode, "", reqErr.Body)

	case client.KindInvalidRequest:
		_ = utils.WriteBadRequest(w, reqErr.Message, nil)

	default:
		deps.Logger.Warn("backend unreachable",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadGateway(w, "")
	}
}

package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the console's JSON error body
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// errorCodes maps HTTP status to the machine-readable error field.
// Anything missing is reported as internal_error.
var errorCodes = map[int]string{
	http.StatusBadRequest:         "bad_request",
	http.StatusUnauthorized:       "unauthorized",
	http.StatusForbidden:          "forbidden",
	http.StatusNotFound:           "not_found",
	http.StatusConflict:           "conflict",
	http.StatusTooManyRequests:    "rate_limit_exceeded",
	http.StatusBadGateway:         "bad_gateway",
	http.StatusServiceUnavailable: "service_unavailable",
}

// ErrorCode returns the error field used for status
func ErrorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	return "internal_error"
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteRaw writes body unchanged. An empty contentType means JSON.
func WriteRaw(w http.ResponseWriter, status int, contentType string, body []byte) error {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// WriteError writes an ErrorResponse whose error field is derived from status
func WriteError(w http.ResponseWriter, status int, message string, details map[string]interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:   ErrorCode(status),
		Message: message,
		Details: details,
	})
}

// WriteBadRequest writes a 400 with optional field details
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusBadRequest, message, details)
}

// WriteUnauthorized writes a 401. Details usually carry login_url.
func WriteUnauthorized(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusUnauthorized, orDefault(message, "Authentication required"), details)
}

// WriteBadGateway writes a 502 for an unreachable or failing backend
func WriteBadGateway(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadGateway, orDefault(message, "Backend unreachable"), nil)
}

// WriteInternalServerError writes a 500
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, orDefault(message, "Internal server error"), nil)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

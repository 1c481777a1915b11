package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/codeintervu-admin/navigation"
	"github.com/upb/codeintervu-admin/session"
	"github.com/upb/codeintervu-admin/utils"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second

	// HeaderRequestID carries the correlation id on outbound requests
	HeaderRequestID = "X-Request-ID"

	maxResponseBytes = 10 << 20
)

// LoginNavigator moves the operator to the login view
type LoginNavigator interface {
	// ScheduleLogin arms a delayed navigation; it returns false if one is already pending
	ScheduleLogin() bool
	// NavigateToLogin navigates now
	NavigateToLogin()
	// Stop cancels a pending navigation and reports whether one was pending
	Stop() bool
}

// Request describes one backend call. Path is relative to the configured base URL.
type Request struct {
	Method  string            `validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Path    string            `validate:"required,startswith=/"`
	Query   url.Values        `validate:"-"`
	Body    interface{}       `validate:"-"`
	Headers map[string]string `validate:"-"`
}

// Response is a successful (2xx) backend response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into out. An empty body is not an error.
func (r *Response) Decode(out interface{}) error {
	if out == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Config holds client settings
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	HomePath string
}

// Client sends requests to the content backend on behalf of the operator.
// Every request carries the stored credential when one exists; a 401 evicts
// it and schedules a single navigation to the login view.
type Client struct {
	baseURL     string
	homePath    string
	httpClient  *http.Client
	credentials *session.Credentials
	login       LoginNavigator
	navigator   navigation.Navigator
	logger      *zap.Logger
}

// New creates a new Client. navigator receives the post-login navigation and may be nil.
func New(cfg Config, credentials *session.Credentials, login LoginNavigator, navigator navigation.Navigator, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		homePath: cfg.HomePath,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		credentials: credentials,
		login:       login,
		navigator:   navigator,
		logger:      logger,
	}
}

// Do sends req and classifies the outcome. There are no retries.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "invalid request", Err: errors.New("nil request")}
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "invalid request", Err: err}
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, &Error{Kind: KindTransport, Message: "backend unreachable", Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to read response", StatusCode: httpResp.StatusCode, Err: err}
	}

	c.logger.Debug("backend request completed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("latency", time.Since(startTime)),
		zap.String("request_id", httpReq.Header.Get(HeaderRequestID)))

	switch {
	case httpResp.StatusCode >= 200 && httpResp.StatusCode < 300:
		return &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
		}, nil

	case httpResp.StatusCode == http.StatusUnauthorized:
		c.handleRejected(ctx, req)
		return nil, &Error{
			Kind:       KindServerRejected,
			StatusCode: httpResp.StatusCode,
			Message:    backendMessage(body, "server rejected credential"),
			Body:       body,
		}

	default:
		return nil, &Error{
			Kind:       KindRequestFailed,
			StatusCode: httpResp.StatusCode,
			Message:    backendMessage(body, http.StatusText(httpResp.StatusCode)),
			Body:       body,
		}
	}
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &Error{Kind: KindInvalidRequest, Message: "failed to marshal request body", Err: err}
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "failed to create request", Err: err}
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.New().String())
	}

	token, err := c.credentials.Load(ctx)
	switch {
	case errors.Is(err, session.ErrCredentialAbsent):
		// Sent without Authorization; the backend decides.
	case err != nil:
		return nil, fmt.Errorf("attach credential: %w", err)
	default:
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, nil
}

// handleRejected evicts the credential and schedules the login navigation.
// Concurrent rejections each evict (idempotent) but schedule at most once.
func (c *Client) handleRejected(ctx context.Context, req *Request) {
	if err := c.credentials.Evict(ctx); err != nil {
		c.logger.Error("failed to evict rejected credential", zap.Error(err))
	}

	scheduled := c.login.ScheduleLogin()
	c.logger.Info("backend rejected credential",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Bool("navigation_scheduled", scheduled))
}

// backendMessage extracts {"message": ...} or {"error": ...} from an error body
func backendMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	if payload.Message != "" {
		return payload.Message
	}
	if payload.Error != "" {
		return payload.Error
	}
	return fallback
}

// Get sends a GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

// Post sends a POST with in as the JSON body and decodes the response into out
func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	return c.send(ctx, http.MethodPost, path, in, out)
}

// Put sends a PUT with in as the JSON body and decodes the response into out
func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	return c.send(ctx, http.MethodPut, path, in, out)
}

// Patch sends a PATCH with in as the JSON body and decodes the response into out
func (c *Client) Patch(ctx context.Context, path string, in, out interface{}) error {
	return c.send(ctx, http.MethodPatch, path, in, out)
}

// Delete sends a DELETE and decodes the response into out
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.send(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	resp, err := c.Do(ctx, &Request{Method: method, Path: path, Body: in})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

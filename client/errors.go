package client

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure
type Kind string

const (
	// KindServerRejected means the backend answered 401. The stored
	// credential has already been evicted when this is returned.
	KindServerRejected Kind = "server_rejected"
	// KindRequestFailed is any other non-2xx status
	KindRequestFailed Kind = "request_failed"
	// KindTransport means no response was received
	KindTransport Kind = "transport"
	// KindInvalidRequest means the descriptor failed validation and nothing was sent
	KindInvalidRequest Kind = "invalid_request"
)

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrServerRejected = &Error{Kind: KindServerRejected, Message: "server rejected credential"}
	ErrRequestFailed  = &Error{Kind: KindRequestFailed, Message: "request failed"}
	ErrTransport      = &Error{Kind: KindTransport, Message: "backend unreachable"}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest, Message: "invalid request"}

	// ErrInvalidLogin is returned by Login when the backend refuses the username/password pair
	ErrInvalidLogin = errors.New("invalid username or password")
)

// Error is a classified request failure
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or "" when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusCode returns the backend status carried by err, or 0
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

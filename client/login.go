package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/codeintervu-admin/credential"
	"github.com/upb/codeintervu-admin/utils"
	"go.uber.org/zap"
)

// LoginPath is the backend endpoint that issues admin credentials
const LoginPath = "/admin/login"

// LoginRequest is the body sent to the login endpoint
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse is the body returned by a successful login
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// Login exchanges username and password for a credential, stores it and
// moves to the home view. The previous credential, if any, is overwritten.
func (c *Client) Login(ctx context.Context, username, password string) (*credential.Claims, error) {
	body := LoginRequest{Username: username, Password: password}
	if err := utils.ValidateStruct(&body); err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "invalid login", Err: err}
	}

	var out LoginResponse
	if err := c.Post(ctx, LoginPath, body, &out); err != nil {
		switch KindOf(err) {
		case KindServerRejected, KindRequestFailed:
			if code := StatusCode(err); code >= 400 && code < 500 {
				return nil, fmt.Errorf("%w: %w", ErrInvalidLogin, err)
			}
		}
		return nil, err
	}

	if out.Token == "" {
		return nil, &Error{Kind: KindRequestFailed, Message: "login response carried no token"}
	}

	claims, err := credential.Parse(out.Token)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Message: "login response carried an unusable token", Err: err}
	}

	if err := c.credentials.Save(ctx, out.Token); err != nil {
		return nil, err
	}

	// A rejection from the previous session must not send the new one back to login.
	if c.login.Stop() {
		c.logger.Info("cancelled pending login navigation")
	}

	c.logger.Info("admin logged in",
		zap.String("subject", claims.Subject()),
		zap.Time("expires_at", claims.ExpiresAt.Time))

	if c.navigator != nil {
		c.navigator.Navigate(c.homePath)
	}
	return claims, nil
}

// Logout evicts the credential and navigates to the login view immediately
func (c *Client) Logout(ctx context.Context) error {
	if err := c.credentials.Evict(ctx); err != nil {
		return err
	}
	c.login.NavigateToLogin()
	c.logger.Info("admin logged out")
	return nil
}

// IsInvalidLogin reports whether err is a refused login
func IsInvalidLogin(err error) bool {
	return errors.Is(err, ErrInvalidLogin)
}

package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the credential cannot be decoded into the
	// three-segment structure with a JSON payload
	ErrMalformed = errors.New("malformed credential")

	// ErrMissingExpiry is returned when the payload carries no exp claim.
	// It matches ErrMalformed.
	ErrMissingExpiry = fmt.Errorf("%w: credential has no expiry", ErrMalformed)
)

// Claims is the payload segment of an admin credential.
// Only ExpiresAt is required; the rest is informational.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Parse decodes the payload segment of raw. The header and signature
// segments are not inspected; the issuing backend verifies them.
func Parse(raw string) (*Claims, error) {
	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected three dot-delimited segments", ErrMalformed)
	}

	payload, err := jwt.NewParser().DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrMalformed, err)
	}

	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}

	if claims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}

	return claims, nil
}

// ExpiredAt reports whether the claims are expired at now.
// A credential whose expiry equals now is already expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now)
}

// Subject returns the best display name for the credential holder
func (c *Claims) Subject() string {
	if c.Username != "" {
		return c.Username
	}
	return c.RegisteredClaims.Subject
}

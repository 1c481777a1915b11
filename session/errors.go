package session

import "errors"

var (
	// ErrCredentialAbsent means nobody is logged in
	ErrCredentialAbsent = errors.New("credential absent")

	// ErrCredentialMalformed means the stored credential could not be decoded
	ErrCredentialMalformed = errors.New("credential malformed")

	// ErrCredentialExpired means the embedded expiry has passed
	ErrCredentialExpired = errors.New("credential expired")
)

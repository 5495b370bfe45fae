package auth

import "errors"

// Sentinel errors for authentication and authorization.
var (
	// Authentication errors. ErrInvalidCredentials deliberately covers both
	// unknown usernames and wrong passwords so callers cannot enumerate users.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrUnknownUser        = errors.New("auth: unknown user")
	ErrStoreUnavailable   = errors.New("auth: user store unavailable")

	// Token errors
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrBadSignature   = errors.New("auth: token signature invalid")
	ErrTokenExpired   = errors.New("auth: token expired")

	// Authorization errors
	ErrForbidden = errors.New("auth: access denied")
)

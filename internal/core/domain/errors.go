package domain

import "errors"

// Validation and business-rule failures. Handlers turn these into 4xx
// responses with fixed, user-facing messages.
var (
	ErrValidation         = errors.New("validation failed")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("admin access required")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfModification   = errors.New("cannot modify your own account")
	ErrInvalidRole        = errors.New("invalid role")
)

// ErrInternal marks failures of infrastructure the caller cannot act on
// (store unreachable, hashing primitive failure).
var ErrInternal = errors.New("internal error")

package domain

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses by the
// API error handler.
var (
	ErrMissingCredential = errors.New("authentication credential is missing")
	ErrInvalidCredential = errors.New("authentication credential is invalid or expired")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrSelfDeletion      = errors.New("administrators cannot delete their own account")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already in use by another account")
	ErrAccountNotFound   = errors.New("account not found")
	ErrUpstream          = errors.New("upstream store failure")
)

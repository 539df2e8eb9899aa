// Package common defines sentinel errors and constants shared by the
// CloudVault server and its terminal client. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserNotFound       = errors.New("user not found")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	// Token errors (malformed, badly signed or expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// File hierarchy errors.
	ErrInvalidParent   = errors.New("invalid parent")
	ErrCyclicMove      = errors.New("move would create a cycle")
	ErrPayloadTooLarge = errors.New("payload too large")

	// Blob storage errors.
	ErrStorageWrite = errors.New("storage write error")
	ErrStorageRead  = errors.New("storage read error")

	// Validation errors (missing or malformed input).
	ErrValidation = errors.New("validation error")

	ErrInternal = errors.New("internal error")
)

package domain

import "errors"

// Validation. Wrap with a field message: fmt.Errorf("%w: title is required", ErrValidation).
var ErrValidation = errors.New("validation failed")

// Authentication.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("token missing")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
)

// Authorization.
var ErrForbidden = errors.New("access forbidden")

// Lookups and conflicts.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("slug already in use")
)

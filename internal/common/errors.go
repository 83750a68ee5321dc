// Package common defines shared constants, sentinel errors and small helpers
// used across client and server layers of GophAuth. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken   = errors.New("invalid token")
	ErrMalformedToken = errors.New("malformed token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Credential lifecycle errors returned by the auth workflows.
	ErrInvalidPassword          = errors.New("password must be at least 8 characters and contain a letter and a digit")
	ErrDuplicateEmail           = errors.New("email is already registered")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrExpiredVerificationToken = errors.New("verification token has expired")
	ErrInvalidRefreshToken      = errors.New("invalid refresh token")
	ErrExpiredRefreshToken      = errors.New("refresh token has expired")
	ErrUserNotFound             = errors.New("user not found")
)

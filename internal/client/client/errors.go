package client

import "errors"

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrRejected          = errors.New("request rejected")
	ErrNotLoggedIn       = errors.New("not logged in")
)

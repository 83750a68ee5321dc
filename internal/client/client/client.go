package client

import "context"

// Session is the outcome of a successful login.
type Session struct {
	UserID        string
	Email         string
	EmailVerified bool
}

// Profile describes the authenticated user.
type Profile struct {
	UserID        string
	Name          string
	Email         string
	EmailVerified bool
}

type Client interface {
	Close() error
	Register(ctx context.Context, name, email, password string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password, deviceID string) (*Session, error)
	RenewAccessToken(ctx context.Context) error
	WhoAmI(ctx context.Context) (*Profile, error)
	Ping(ctx context.Context) error
	Logout()
}

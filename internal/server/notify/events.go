// Package notify delivers side effects of the auth workflows, such as the
// verification email, outside the request path. Delivery is best effort.
package notify

import (
	"context"
	"time"
)

// UserRegistered is published once a registration has been committed.
type UserRegistered struct {
	UserID            string
	Name              string
	Email             string
	VerificationToken string
	ExpiresAt         time.Time
}

// Sink accepts events for later delivery.
type Sink interface {
	Publish(ctx context.Context, event UserRegistered) error
}

// Handler processes one event.
type Handler interface {
	Handle(ctx context.Context, event UserRegistered) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event UserRegistered) error

func (f HandlerFunc) Handle(ctx context.Context, event UserRegistered) error {
	return f(ctx, event)
}

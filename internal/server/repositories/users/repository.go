// Package users declares the account store used by the auth workflows and
// provides PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts a new user. A taken email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) error

	// FindByID and FindByEmail return common.ErrorNotFound when absent.
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SetEmailVerified marks the user's email as verified. Calling it on an
	// already verified user is a no-op.
	SetEmailVerified(ctx context.Context, id string) error
}

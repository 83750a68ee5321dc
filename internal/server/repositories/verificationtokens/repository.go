// Package verificationtokens stores the opaque tokens mailed to users to
// confirm their email address.
package verificationtokens

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.VerificationToken) error

	// FindByToken returns common.ErrorNotFound when the token is unknown.
	FindByToken(ctx context.Context, token string) (*models.VerificationToken, error)

	// DeleteAllForUser removes every outstanding token of userID.
	DeleteAllForUser(ctx context.Context, userID string) error
}

// Package refreshtokens declares the server-side repository contract for
// per-device refresh tokens, with PostgreSQL and in-memory implementations.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores at most one refresh token per (user, device) pair.
type Repository interface {
	// Upsert creates the row for (userID, deviceID) or replaces its token and
	// expiry in one atomic write.
	Upsert(ctx context.Context, userID, deviceID, token string, expiresAt time.Time) error

	// FindByUserAndDevice returns common.ErrorNotFound when no row exists.
	FindByUserAndDevice(ctx context.Context, userID, deviceID string) (*models.RefreshToken, error)

	// DeleteByToken and DeleteByUserAndDevice remove matching rows. Deleting
	// a row that does not exist is not an error.
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) error
}

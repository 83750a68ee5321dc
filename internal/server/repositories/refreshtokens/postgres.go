package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
	// now stamps created_at on first insert
	now func() time.Time
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

// Upsert relies on the (user_id, device_id) primary key so concurrent logins
// on the same device can never leave two rows behind.
func (r *PostgresRepository) Upsert(ctx context.Context, userID, deviceID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, device_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, device_id)
		DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, deviceID, token, expiresAt, r.now()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByUserAndDevice(ctx context.Context, userID, deviceID string) (*models.RefreshToken, error) {
	query := `
		SELECT user_id, device_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE user_id = $1 AND device_id = $2
	`
	t := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, userID, deviceID).
		Scan(&t.UserID, &t.DeviceID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1 AND device_id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, userID, deviceID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

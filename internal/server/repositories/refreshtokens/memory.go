package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type key struct {
	userID   string
	deviceID string
}

// MemoryRepository keeps refresh tokens in a map keyed by (user, device).
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[key]models.RefreshToken
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[key]models.RefreshToken), now: time.Now}
}

func (r *MemoryRepository) Upsert(ctx context.Context, userID, deviceID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{userID: userID, deviceID: deviceID}
	row, ok := r.rows[k]
	if !ok {
		row = models.RefreshToken{UserID: userID, DeviceID: deviceID, CreatedAt: r.now()}
	}
	row.Token = token
	row.ExpiresAt = expiresAt
	r.rows[k] = row
	return nil
}

func (r *MemoryRepository) FindByUserAndDevice(ctx context.Context, userID, deviceID string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[key{userID: userID, deviceID: deviceID}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (r *MemoryRepository) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, row := range r.rows {
		if row.Token == token {
			delete(r.rows, k)
		}
	}
	return nil
}

func (r *MemoryRepository) DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, key{userID: userID, deviceID: deviceID})
	return nil
}

// CountForUser returns how many devices hold a token for userID.
func (r *MemoryRepository) CountForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for k := range r.rows {
		if k.userID == userID {
			n++
		}
	}
	return n
}

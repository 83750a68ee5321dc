package verificationtokens

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string]models.VerificationToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]models.VerificationToken)}
}

func (r *MemoryRepository) Create(ctx context.Context, t *models.VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[t.Token]; ok {
		return common.ErrAlreadyExists
	}
	r.rows[t.Token] = *t
	return nil
}

func (r *MemoryRepository) FindByToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, t := range r.rows {
		if t.UserID == userID {
			delete(r.rows, k)
		}
	}
	return nil
}

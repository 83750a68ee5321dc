package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/verificationtokens"
)

// MemoryRepositoryManager keeps all data in process memory. It has no
// transactions: WithTx runs fn directly and earlier writes stay in place if
// fn fails.
type MemoryRepositoryManager struct {
	users              *users.MemoryRepository
	refreshTokens      *refreshtokens.MemoryRepository
	verificationTokens *verificationtokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:              users.NewMemoryRepository(),
		refreshTokens:      refreshtokens.NewMemoryRepository(),
		verificationTokens: verificationtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository { return m.refreshTokens }

func (m *MemoryRepositoryManager) VerificationTokens() verificationtokens.Repository {
	return m.verificationTokens
}

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) Close() error { return nil }

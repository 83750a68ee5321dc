package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/verificationtokens"
)

// MemoryDSN selects the in-memory backend instead of PostgreSQL.
const MemoryDSN = "memory"

// RepositoryManager vends the stores used by the auth workflows and groups
// writes into a single unit of work.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	VerificationTokens() verificationtokens.Repository

	// WithTx runs fn with a manager whose stores share one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error

	Close() error
}

// New picks a backend from the DSN: MemoryDSN for the in-memory stores,
// anything else is handed to the pgx driver.
func New(dsn string) (RepositoryManager, error) {
	if dsn == MemoryDSN {
		return NewMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(dsn)
}

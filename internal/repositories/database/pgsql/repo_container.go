package pgsql

import (
	portsrepo "github.com/irfndi/accounting-finance-manager/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		LedgerRepo:  ledgerRepo,
	}
}

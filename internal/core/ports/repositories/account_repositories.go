package repositories

import (
	"context"
	"time"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a single account by its identity.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountsByType retrieves all accounts of a type within an entity scope.
	FindAccountsByType(ctx context.Context, entityID string, accountType domain.AccountType) ([]domain.Account, error)

	// ListAccounts retrieves all accounts within an entity scope.
	ListAccounts(ctx context.Context, entityID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountBalance replaces the cached base-currency balance of an account.
	UpdateAccountBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal, updatedBy string, updatedAt time.Time) error

	// DeactivateAccount flags an account as inactive.
	DeactivateAccount(ctx context.Context, accountID int64, updatedBy string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

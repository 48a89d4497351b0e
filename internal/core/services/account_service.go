package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portsrepo "github.com/irfndi/accounting-finance-manager/internal/core/ports/repositories"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/core/registry"
	"github.com/irfndi/accounting-finance-manager/internal/dto"
	"github.com/irfndi/accounting-finance-manager/internal/middleware"
)

// accountService manages the chart of accounts: the in-memory registry
// is the fast catalog, the repository the durable record. Both are kept
// in step on every mutation.
type accountService struct {
	accounts    *registry.Registry
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates an AccountService over the given registry
// and repository.
func NewAccountService(accounts *registry.Registry, accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accounts: accounts, accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers and persists a new account. The normal balance
// is always derived from the account type.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	normal, err := domain.NormalBalanceForType(req.AccountType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	allowTransactions := true
	if req.AllowTransactions != nil {
		allowTransactions = *req.AllowTransactions
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:         req.AccountID,
		Code:              req.Code,
		Name:              req.Name,
		AccountType:       req.AccountType,
		NormalBalance:     normal,
		ParentAccountID:   req.ParentAccountID,
		IsActive:          true,
		AllowTransactions: allowTransactions,
		CurrentBalance:    decimal.Zero,
		EntityID:          req.EntityID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Registry registration performs code, hierarchy, and consistency
	// validation; nothing touches storage until it passes.
	if err := s.accounts.Register(account); err != nil {
		return nil, err
	}
	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		logger.Error("Failed to persist account", slog.Int64("account_id", account.AccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist account: %w", err)
	}

	logger.Info("Account created",
		slog.Int64("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByID returns an account from the registry.
func (s *accountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, ok := s.accounts.GetByID(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

// GetAccountByCode returns an account by its unique code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, ok := s.accounts.GetByCode(code)
	if !ok {
		return nil, fmt.Errorf("%w: account code %q", apperrors.ErrNotFound, code)
	}
	return &account, nil
}

// ListAccountsByType returns all accounts of the given type within an entity.
func (s *accountService) ListAccountsByType(ctx context.Context, entityID string, accountType domain.AccountType) ([]domain.Account, error) {
	if _, err := domain.NormalBalanceForType(accountType); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	accounts := make([]domain.Account, 0)
	for _, account := range s.accounts.ByType(accountType) {
		if entityID == "" || account.EntityID == entityID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// DeactivateAccount soft-disables an account in the registry and storage.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID int64, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accounts.Deactivate(accountID); err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		logger.Error("Failed to persist account deactivation", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	logger.Info("Account deactivated", slog.Int64("account_id", accountID))
	return nil
}

// LoadRegistryFromStore hydrates the registry with every stored account
// for an entity. Partial population is tolerated by the validators, but a
// hydrated registry gives them full context.
func LoadRegistryFromStore(ctx context.Context, accounts *registry.Registry, accountRepo portsrepo.AccountRepositoryFacade, entityID string) error {
	stored, err := accountRepo.ListAccounts(ctx, entityID)
	if err != nil {
		return fmt.Errorf("failed to list accounts for entity %s: %w", entityID, err)
	}
	// Parents must be registered before their children, so register in
	// passes until the remainder stops shrinking.
	pending := stored
	for len(pending) > 0 {
		var deferred []domain.Account
		for _, account := range pending {
			if account.ParentAccountID != nil {
				if _, ok := accounts.GetByID(*account.ParentAccountID); !ok {
					deferred = append(deferred, account)
					continue
				}
			}
			if err := accounts.Register(account); err != nil {
				return fmt.Errorf("failed to register stored account %d: %w", account.AccountID, err)
			}
		}
		if len(deferred) == len(pending) {
			return fmt.Errorf("%w: %d stored accounts reference missing parents", apperrors.ErrValidation, len(deferred))
		}
		pending = deferred
	}
	return nil
}

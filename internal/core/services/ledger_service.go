package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portsrepo "github.com/irfndi/accounting-finance-manager/internal/core/ports/repositories"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/dto"
	"github.com/irfndi/accounting-finance-manager/internal/middleware"
	"github.com/irfndi/accounting-finance-manager/internal/utils/accounting"
)

// ledgerService orchestrates the transaction lifecycle: validation,
// journal entry expansion, persistence, and posting. Validation failures
// surface before any persistence call, so invalid input never leaves a
// partial write behind.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	journals    *JournalEntryManager
	balances    *BalanceManager
	locks       *entityLocks
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(
	accountRepo portsrepo.AccountRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	journals *JournalEntryManager,
	balances *BalanceManager,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		journals:    journals,
		balances:    balances,
		locks:       newEntityLocks(),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ValidateTransactionData runs the pure structural and balance checks.
func (s *ledgerService) ValidateTransactionData(data domain.TransactionData) []domain.ValidationIssue {
	return accounting.ValidateTransactionData(data)
}

// CreateAndPersistTransaction validates the data, expands it into journal
// entries with base-currency conversion, re-validates with registry
// context, and persists the DRAFT header plus its entries.
func (s *ledgerService) CreateAndPersistTransaction(ctx context.Context, data domain.TransactionData, creatorUserID string) (*dto.TransactionWithEntries, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if issues := accounting.ValidateTransactionData(data); len(issues) > 0 {
		return nil, apperrors.NewAccountingError("create transaction", issues)
	}

	lock := s.locks.forEntity(data.EntityID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()
	transactionID := uuid.NewString()

	entries, err := s.journals.CreateEntriesFromTransaction(ctx, transactionID, data, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to expand journal entries: %w", err)
	}
	if issues := s.journals.ValidateEntries(ctx, entries); len(issues) > 0 {
		return nil, apperrors.NewAccountingError("create transaction", issues)
	}

	transaction := domain.Transaction{
		TransactionID:   transactionID,
		Description:     data.Description,
		TransactionDate: data.TransactionDate,
		CurrencyCode:    data.CurrencyCode,
		Reference:       data.Reference,
		EntityID:        data.EntityID,
		Status:          domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// The two creates below are separate adapter calls; hosts needing
	// all-or-nothing semantics wrap them in their own storage transaction.
	if err := s.ledgerRepo.CreateTransaction(ctx, transaction); err != nil {
		logger.Error("Failed to persist transaction header", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}
	if err := s.ledgerRepo.CreateJournalEntries(ctx, entries); err != nil {
		logger.Error("Failed to persist journal entries", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist journal entries: %w", err)
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", transactionID),
		slog.String("entity_id", data.EntityID),
		slog.Int("entry_count", len(entries)))
	return &dto.TransactionWithEntries{Transaction: transaction, JournalEntries: entries}, nil
}

// PostTransaction transitions DRAFT -> POSTED and applies the entries to
// the balance manager and the cached account balances. Posting an already
// POSTED transaction is a no-op, not an error, to tolerate at-least-once
// delivery from callers.
func (s *ledgerService) PostTransaction(ctx context.Context, transactionID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	transaction, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	lock := s.locks.forEntity(transaction.EntityID)
	lock.Lock()
	defer lock.Unlock()

	if transaction.Status == domain.Posted {
		logger.Info("Transaction already posted, skipping", slog.String("transaction_id", transactionID))
		return nil
	}

	entries, err := s.ledgerRepo.FindJournalEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to load journal entries for %s: %w", transactionID, err)
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.UpdateTransactionStatus(ctx, transactionID, domain.Posted, userID, now); err != nil {
		return fmt.Errorf("failed to mark transaction %s posted: %w", transactionID, err)
	}
	transaction.Status = domain.Posted

	s.balances.AddTransaction(*transaction, entries)

	// Refresh the cached balance of every affected account. Accounts
	// unknown to the registry have no derivable normal balance; they are
	// logged and skipped, matching the soft-warning policy at validation.
	touched := make(map[int64]bool)
	for _, entry := range entries {
		touched[entry.AccountID] = true
	}
	for accountID := range touched {
		balance, err := s.balances.AccountBalance(accountID, nil)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Skipping balance update for unregistered account", slog.Int64("account_id", accountID))
				continue
			}
			return fmt.Errorf("failed to compute balance for account %d: %w", accountID, err)
		}
		if err := s.accountRepo.UpdateAccountBalance(ctx, accountID, balance, userID, now); err != nil {
			return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
		}
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", transactionID),
		slog.Int("account_count", len(touched)))
	return nil
}

// GetJournalEntriesByTransaction returns all entries of one transaction.
func (s *ledgerService) GetJournalEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	entries, err := s.ledgerRepo.FindJournalEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entries for %s: %w", transactionID, err)
	}
	return entries, nil
}

// ListJournalEntriesByAccount returns a token-paginated page of entries
// posted against one account.
func (s *ledgerService) ListJournalEntriesByAccount(ctx context.Context, entityID string, accountID int64, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, token, err := s.ledgerRepo.ListJournalEntriesByAccount(ctx, entityID, accountID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries for account %d: %w", accountID, err)
	}
	return entries, token, nil
}

// ReconcileJournalEntry marks an entry reconciled against an external record.
func (s *ledgerService) ReconcileJournalEntry(ctx context.Context, journalEntryID, reconciliationID, userID string) (*domain.JournalEntry, error) {
	return s.journals.Reconcile(ctx, journalEntryID, reconciliationID, userID)
}

// UnreconcileJournalEntry clears an entry's reconciliation state.
func (s *ledgerService) UnreconcileJournalEntry(ctx context.Context, journalEntryID, userID string) (*domain.JournalEntry, error) {
	return s.journals.Unreconcile(ctx, journalEntryID, userID)
}

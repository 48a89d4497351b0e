package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portsrepo "github.com/irfndi/accounting-finance-manager/internal/core/ports/repositories"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/core/registry"
	"github.com/irfndi/accounting-finance-manager/internal/middleware"
	"github.com/irfndi/accounting-finance-manager/internal/utils/accounting"
)

var (
	ErrAlreadyReconciled       = errors.New("journal entry is already reconciled")
	ErrNotReconciled           = errors.New("journal entry is not reconciled")
	ErrReconciliationIDMissing = errors.New("reconciliation id is required")
)

// JournalEntryManagerOptions configures registry strictness and base currency.
type JournalEntryManagerOptions struct {
	BaseCurrency string
	// StrictUnknownAccounts turns entries against accounts missing from the
	// registry into hard validation issues. By default they are soft
	// warnings to tolerate partially loaded registries.
	StrictUnknownAccounts bool
}

// JournalEntryManager expands validated transaction data into journal
// entries, re-validates them with account-registry context, and owns
// reconciliation state transitions. It holds no ambient state: the
// registry and repositories are injected by the caller.
type JournalEntryManager struct {
	accounts   *registry.Registry
	rates      portssvc.ExchangeRateProvider
	currencies portssvc.CurrencySvcFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
	opts       JournalEntryManagerOptions
}

// NewJournalEntryManager creates a JournalEntryManager.
func NewJournalEntryManager(
	accounts *registry.Registry,
	rates portssvc.ExchangeRateProvider,
	currencies portssvc.CurrencySvcFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	opts JournalEntryManagerOptions,
) *JournalEntryManager {
	if opts.BaseCurrency == "" {
		opts.BaseCurrency = "USD"
	}
	return &JournalEntryManager{
		accounts:   accounts,
		rates:      rates,
		currencies: currencies,
		ledgerRepo: ledgerRepo,
		opts:       opts,
	}
}

// CreateEntriesFromTransaction expands transaction data into journal
// entries, converting each line to the base currency. Same-currency lines
// get a rate of exactly 1. The entries are returned unpersisted.
func (m *JournalEntryManager) CreateEntriesFromTransaction(ctx context.Context, transactionID string, data domain.TransactionData, creatorUserID string) ([]domain.JournalEntry, error) {
	now := time.Now().UTC()
	entries := make([]domain.JournalEntry, len(data.Entries))
	for i, line := range data.Entries {
		currency := line.CurrencyCode
		if currency == "" {
			currency = data.CurrencyCode
		}

		rate := decimal.NewFromInt(1)
		if currency != m.opts.BaseCurrency {
			var err error
			rate, err = m.rates.Rate(ctx, currency, m.opts.BaseCurrency, data.TransactionDate)
			if err != nil {
				return nil, fmt.Errorf("exchange rate lookup for %s: %w", currency, err)
			}
		}

		description := line.Description
		if description == "" {
			description = data.Description
		}

		entries[i] = domain.JournalEntry{
			JournalEntryID:   uuid.NewString(),
			TransactionID:    transactionID,
			AccountID:        line.AccountID,
			Description:      description,
			CurrencyCode:     currency,
			DebitAmount:      line.DebitAmount,
			CreditAmount:     line.CreditAmount,
			ExchangeRate:     rate,
			BaseCurrencyCode: m.opts.BaseCurrency,
			BaseDebitAmount:  line.DebitAmount.Mul(rate),
			BaseCreditAmount: line.CreditAmount.Mul(rate),
			EntryDate:        data.TransactionDate,
			EntityID:         data.EntityID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}
	return entries, nil
}

// ValidateEntries re-checks expanded journal entries independently of the
// transaction validator: structural validity, per-currency balance on raw
// amounts, and account compatibility against the registry. Entries
// against accounts unknown to the registry are logged for audit, not
// rejected, unless strict mode is on; registry population is allowed to
// be partial.
func (m *JournalEntryManager) ValidateEntries(ctx context.Context, entries []domain.JournalEntry) []domain.ValidationIssue {
	logger := middleware.GetLoggerFromCtx(ctx)
	var issues []domain.ValidationIssue

	for i, entry := range entries {
		issues = append(issues, m.validateEntryStructure(ctx, i, entry)...)
		issues = append(issues, m.validateEntryAccount(ctx, logger, i, entry)...)
	}

	issues = append(issues, validateEntryBalance(entries)...)
	return issues
}

func (m *JournalEntryManager) validateEntryStructure(ctx context.Context, index int, entry domain.JournalEntry) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	field := func(name string) string { return fmt.Sprintf("entries[%d].%s", index, name) }

	if entry.AccountID <= 0 {
		issues = append(issues, domain.ValidationIssue{
			Field: field("accountID"), Message: "entry is missing an account id", Code: domain.CodeMissingAccountID,
		})
	}
	if entry.DebitAmount.IsNegative() {
		issues = append(issues, domain.ValidationIssue{
			Field: field("debitAmount"), Message: "debit amount must not be negative", Code: domain.CodeNegativeDebit,
		})
	}
	if entry.CreditAmount.IsNegative() {
		issues = append(issues, domain.ValidationIssue{
			Field: field("creditAmount"), Message: "credit amount must not be negative", Code: domain.CodeNegativeCredit,
		})
	}
	hasDebit := entry.DebitAmount.IsPositive()
	hasCredit := entry.CreditAmount.IsPositive()
	if hasDebit && hasCredit {
		issues = append(issues, domain.ValidationIssue{
			Field: field("debitAmount"), Message: "entry has both a debit and a credit amount", Code: domain.CodeBothDebitAndCredit,
		})
	} else if !hasDebit && !hasCredit {
		issues = append(issues, domain.ValidationIssue{
			Field: field("debitAmount"), Message: "entry has neither a debit nor a credit amount", Code: domain.CodeNoAmount,
		})
	}
	if _, err := m.currencies.GetCurrencyByCode(ctx, entry.CurrencyCode); err != nil {
		issues = append(issues, domain.ValidationIssue{
			Field: field("currencyCode"), Message: fmt.Sprintf("unknown currency %q", entry.CurrencyCode), Code: domain.CodeInvalidCurrency,
		})
	}
	if !entry.ExchangeRate.IsPositive() {
		issues = append(issues, domain.ValidationIssue{
			Field: field("exchangeRate"), Message: "exchange rate must be positive", Code: domain.CodeInvalidExchangeRate,
		})
	}
	if entry.Description == "" {
		issues = append(issues, domain.ValidationIssue{
			Field: field("description"), Message: "entry description is required", Code: domain.CodeMissingEntryDesc,
		})
	}
	return issues
}

func (m *JournalEntryManager) validateEntryAccount(ctx context.Context, logger *slog.Logger, index int, entry domain.JournalEntry) []domain.ValidationIssue {
	if entry.AccountID <= 0 {
		return nil
	}
	field := fmt.Sprintf("entries[%d].accountID", index)

	account, found := m.accounts.GetByID(entry.AccountID)
	if !found {
		if m.opts.StrictUnknownAccounts {
			return []domain.ValidationIssue{{
				Field:   field,
				Message: fmt.Sprintf("account %d is not registered", entry.AccountID),
				Code:    domain.CodeAccountUnknown,
			}}
		}
		logger.Warn("Journal entry references account unknown to the registry",
			slog.Int64("account_id", entry.AccountID),
			slog.String("journal_entry_id", entry.JournalEntryID),
			slog.String("transaction_id", entry.TransactionID))
		return nil
	}

	var issues []domain.ValidationIssue
	if !account.IsActive {
		issues = append(issues, domain.ValidationIssue{
			Field:   field,
			Message: fmt.Sprintf("account %s is inactive", account.Code),
			Code:    domain.CodeAccountInactive,
		})
	}
	if !account.AllowTransactions {
		issues = append(issues, domain.ValidationIssue{
			Field:   field,
			Message: fmt.Sprintf("account %s does not allow transactions", account.Code),
			Code:    domain.CodeAccountNoTxns,
		})
	}
	return issues
}

// validateEntryBalance checks per-currency balance using raw amounts, not
// base amounts: base-currency rounding differences must never cause a
// false rejection, so only the 0.01 tolerance applies.
func validateEntryBalance(entries []domain.JournalEntry) []domain.ValidationIssue {
	if len(entries) == 0 {
		return nil
	}

	type totals struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}
	groups := make(map[string]*totals)
	order := make([]string, 0, 2)
	for _, entry := range entries {
		group, ok := groups[entry.CurrencyCode]
		if !ok {
			group = &totals{}
			groups[entry.CurrencyCode] = group
			order = append(order, entry.CurrencyCode)
		}
		group.debits = group.debits.Add(entry.DebitAmount)
		group.credits = group.credits.Add(entry.CreditAmount)
	}

	var issues []domain.ValidationIssue
	for _, currency := range order {
		group := groups[currency]
		if !accounting.WithinTolerance(group.debits, group.credits) {
			issues = append(issues, domain.ValidationIssue{
				Field: "entries",
				Message: fmt.Sprintf("debits (%s) do not equal credits (%s) for currency %s",
					group.debits.String(), group.credits.String(), currency),
				Code: domain.CodeUnbalanced,
			})
		}
	}
	return issues
}

// Reconcile transitions an entry UNRECONCILED -> RECONCILED. A
// reconciliation id is required; reconciling twice is a conflict.
func (m *JournalEntryManager) Reconcile(ctx context.Context, journalEntryID, reconciliationID, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if reconciliationID == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrReconciliationIDMissing)
	}

	entry, err := m.ledgerRepo.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", journalEntryID, err)
	}
	if entry.IsReconciled {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAlreadyReconciled)
	}

	now := time.Now().UTC()
	entry.IsReconciled = true
	entry.ReconciliationID = &reconciliationID
	entry.ReconciledAt = &now
	entry.ReconciledBy = &userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := m.ledgerRepo.UpdateReconciliation(ctx, *entry); err != nil {
		logger.Error("Failed to persist reconciliation", slog.String("journal_entry_id", journalEntryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist reconciliation: %w", err)
	}

	logger.Info("Journal entry reconciled",
		slog.String("journal_entry_id", journalEntryID),
		slog.String("reconciliation_id", reconciliationID))
	return entry, nil
}

// Unreconcile transitions an entry RECONCILED -> UNRECONCILED, clearing
// the reconciliation metadata.
func (m *JournalEntryManager) Unreconcile(ctx context.Context, journalEntryID, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := m.ledgerRepo.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", journalEntryID, err)
	}
	if !entry.IsReconciled {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrNotReconciled)
	}

	now := time.Now().UTC()
	entry.IsReconciled = false
	entry.ReconciliationID = nil
	entry.ReconciledAt = nil
	entry.ReconciledBy = nil
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := m.ledgerRepo.UpdateReconciliation(ctx, *entry); err != nil {
		logger.Error("Failed to persist unreconciliation", slog.String("journal_entry_id", journalEntryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist unreconciliation: %w", err)
	}

	logger.Info("Journal entry unreconciled", slog.String("journal_entry_id", journalEntryID))
	return entry, nil
}

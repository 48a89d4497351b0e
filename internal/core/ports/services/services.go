package services

import (
	"context"
	"time"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/irfndi/accounting-finance-manager/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateProvider supplies conversion rates for base-currency
// expansion. Implementations may be static tables or live feeds; the
// engine only requires positive rates and an identity rate for same-
// currency pairs.
type ExchangeRateProvider interface {
	Rate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error)
}

// AccountSvcFacade is the account management surface exposed to handlers.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccountsByType(ctx context.Context, entityID string, accountType domain.AccountType) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID int64, userID string) error
}

// LedgerSvcFacade is the transaction lifecycle surface exposed to handlers.
type LedgerSvcFacade interface {
	ValidateTransactionData(data domain.TransactionData) []domain.ValidationIssue
	CreateAndPersistTransaction(ctx context.Context, data domain.TransactionData, creatorUserID string) (*dto.TransactionWithEntries, error)
	PostTransaction(ctx context.Context, transactionID string, userID string) error
	GetJournalEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)
	ListJournalEntriesByAccount(ctx context.Context, entityID string, accountID int64, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	ReconcileJournalEntry(ctx context.Context, journalEntryID, reconciliationID, userID string) (*domain.JournalEntry, error)
	UnreconcileJournalEntry(ctx context.Context, journalEntryID, userID string) (*domain.JournalEntry, error)
}

// ReportingSvcFacade is the reporting surface exposed to handlers.
type ReportingSvcFacade interface {
	AccountBalance(ctx context.Context, accountID int64, asOf *time.Time) (decimal.Decimal, error)
	TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error)
	BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)
}

// CurrencySvcFacade exposes the currency catalog.
type CurrencySvcFacade interface {
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

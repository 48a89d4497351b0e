package repositories

import (
	"context"
	"time"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
)

// TransactionReader defines read operations for transaction headers.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction header by its identity.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByEntity retrieves transaction headers for an entity
	// whose transaction date falls in [from, to], inclusive. Nil bounds
	// leave that side of the range open.
	ListTransactionsByEntity(ctx context.Context, entityID string, from, to *time.Time) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction headers.
type TransactionWriter interface {
	// CreateTransaction persists a new transaction header in DRAFT status.
	CreateTransaction(ctx context.Context, transaction domain.Transaction) error

	// UpdateTransactionStatus moves a transaction between lifecycle states.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error

	// DeleteTransaction removes a transaction header and, by cascade, its
	// journal entries. Entries are never deleted individually.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// JournalEntryReader defines read operations for journal entries.
type JournalEntryReader interface {
	// FindJournalEntryByID retrieves one journal entry.
	FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)

	// FindJournalEntriesByTransaction retrieves all entries of one transaction.
	FindJournalEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// ListJournalEntriesByAccount retrieves a token-paginated list of
	// entries posted against one account, newest first.
	ListJournalEntriesByAccount(ctx context.Context, entityID string, accountID int64, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListJournalEntriesByEntity retrieves every entry for an entity scope,
	// ordered by entry date. Used to rebuild derived balance state.
	ListJournalEntriesByEntity(ctx context.Context, entityID string) ([]domain.JournalEntry, error)
}

// JournalEntryWriter defines write operations for journal entries.
type JournalEntryWriter interface {
	// CreateJournalEntries persists a batch of journal entries.
	CreateJournalEntries(ctx context.Context, entries []domain.JournalEntry) error

	// UpdateReconciliation persists the reconciliation metadata of one
	// entry. Entry content is immutable after posting; only reconciliation
	// fields and audit fields change here.
	UpdateReconciliation(ctx context.Context, entry domain.JournalEntry) error
}

// LedgerRepositoryFacade combines the transaction and journal entry
// repository interfaces. This is the engine's full persistence boundary
// for ledger data.
type LedgerRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	JournalEntryReader
	JournalEntryWriter
}

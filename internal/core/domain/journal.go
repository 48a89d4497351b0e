package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one posted side (debit or credit) of one transaction
// line against a single account. Content is immutable once the owning
// transaction is posted; only reconciliation metadata may change.
type JournalEntry struct {
	JournalEntryID string          `json:"journalEntryID"` // UUID
	TransactionID  string          `json:"transactionID"`
	AccountID      int64           `json:"accountID"`
	Description    string          `json:"description,omitempty"`
	CurrencyCode   string          `json:"currencyCode"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`

	// Base-currency conversion, fixed at creation time.
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	BaseCurrencyCode string          `json:"baseCurrencyCode"`
	BaseDebitAmount  decimal.Decimal `json:"baseDebitAmount"`
	BaseCreditAmount decimal.Decimal `json:"baseCreditAmount"`

	EntryDate time.Time `json:"entryDate"`
	EntityID  string    `json:"entityID"`

	// Reconciliation state machine: UNRECONCILED <-> RECONCILED.
	IsReconciled     bool       `json:"isReconciled"`
	ReconciliationID *string    `json:"reconciliationID,omitempty"`
	ReconciledAt     *time.Time `json:"reconciledAt,omitempty"`
	ReconciledBy     *string    `json:"reconciledBy,omitempty"`

	// RunningBalance is the account's reported balance after this entry,
	// in base currency. Derived at persistence time.
	RunningBalance decimal.Decimal `json:"runningBalance"`

	AuditFields
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database row shape for one posted debit or credit.
// Reconciliation columns are nullable and only set while reconciled.
type JournalEntry struct {
	JournalEntryID string          `db:"journal_entry_id"` // UUID
	TransactionID  string          `db:"transaction_id"`
	AccountID      int64           `db:"account_id"`
	Description    string          `db:"description"`
	CurrencyCode   string          `db:"currency_code"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`

	ExchangeRate     decimal.Decimal `db:"exchange_rate"`
	BaseCurrencyCode string          `db:"base_currency_code"`
	BaseDebitAmount  decimal.Decimal `db:"base_debit_amount"`
	BaseCreditAmount decimal.Decimal `db:"base_credit_amount"`

	EntryDate time.Time `db:"entry_date"`
	EntityID  string    `db:"entity_id"`

	IsReconciled     bool       `db:"is_reconciled"`
	ReconciliationID *string    `db:"reconciliation_id"`
	ReconciledAt     *time.Time `db:"reconciled_at"`
	ReconciledBy     *string    `db:"reconciled_by"`

	RunningBalance decimal.Decimal `db:"running_balance"`
	AuditFields
}

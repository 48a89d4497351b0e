package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of a transaction header.
type TransactionStatus string

const (
	Draft  TransactionStatus = "DRAFT"
	Posted TransactionStatus = "POSTED"
)

// TransactionEntry is one proposed line of a transaction. Exactly one of
// DebitAmount/CreditAmount is nonzero for a valid entry.
type TransactionEntry struct {
	AccountID    int64           `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
	CurrencyCode string          `json:"currencyCode"`
}

// TransactionData is the caller-supplied payload for a new transaction,
// prior to validation and journal entry expansion.
type TransactionData struct {
	Description     string             `json:"description"`
	TransactionDate time.Time          `json:"transactionDate"`
	CurrencyCode    string             `json:"currencyCode"`
	Reference       string             `json:"reference,omitempty"`
	EntityID        string             `json:"entityID"`
	Entries         []TransactionEntry `json:"entries"`
}

// Transaction is a persisted transaction header. Its journal entries are
// stored separately and loaded on demand.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // UUID
	Description     string            `json:"description"`
	TransactionDate time.Time         `json:"transactionDate"`
	CurrencyCode    string            `json:"currencyCode"`
	Reference       string            `json:"reference,omitempty"`
	EntityID        string            `json:"entityID"`
	Status          TransactionStatus `json:"status"`
	AuditFields
}

package dto

import (
	"time"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionEntryRequest is one proposed transaction line.
type TransactionEntryRequest struct {
	AccountID    int64           `json:"accountID" binding:"required,gt=0"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
	CurrencyCode string          `json:"currencyCode,omitempty"` // Defaults to the transaction currency
}

// CreateTransactionRequest is the payload for validating or creating a
// transaction. Binding covers shape only; accounting validity is checked
// by the engine, which reports issues rather than binding errors.
type CreateTransactionRequest struct {
	Description     string                    `json:"description" binding:"required"`
	TransactionDate time.Time                 `json:"transactionDate" binding:"required"`
	CurrencyCode    string                    `json:"currencyCode" binding:"required,len=3"`
	Reference       string                    `json:"reference,omitempty"`
	EntityID        string                    `json:"entityID" binding:"required"`
	Entries         []TransactionEntryRequest `json:"entries" binding:"required,dive"`
}

// ToTransactionData converts the request into the engine's input type.
func (r CreateTransactionRequest) ToTransactionData() domain.TransactionData {
	entries := make([]domain.TransactionEntry, len(r.Entries))
	for i, entry := range r.Entries {
		currency := entry.CurrencyCode
		if currency == "" {
			currency = r.CurrencyCode
		}
		entries[i] = domain.TransactionEntry{
			AccountID:    entry.AccountID,
			DebitAmount:  entry.DebitAmount,
			CreditAmount: entry.CreditAmount,
			Description:  entry.Description,
			CurrencyCode: currency,
		}
	}
	return domain.TransactionData{
		Description:     r.Description,
		TransactionDate: r.TransactionDate,
		CurrencyCode:    r.CurrencyCode,
		Reference:       r.Reference,
		EntityID:        r.EntityID,
		Entries:         entries,
	}
}

// TransactionWithEntries pairs a persisted transaction header with its
// expanded journal entries.
type TransactionWithEntries struct {
	Transaction    domain.Transaction    `json:"transaction"`
	JournalEntries []domain.JournalEntry `json:"journalEntries"`
}

// ValidationResponse carries the issue list for a validation call.
type ValidationResponse struct {
	Valid  bool                     `json:"valid"`
	Issues []domain.ValidationIssue `json:"issues"`
}

// ReconcileRequest is the payload for reconciling a journal entry.
type ReconcileRequest struct {
	ReconciliationID string `json:"reconciliationID" binding:"required"`
}

// ListJournalEntriesResponse is a token-paginated page of entries.
type ListJournalEntriesResponse struct {
	JournalEntries []domain.JournalEntry `json:"journalEntries"`
	NextToken      *string               `json:"nextToken,omitempty"`
}

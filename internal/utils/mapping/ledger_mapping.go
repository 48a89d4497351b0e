package mapping

import (
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/irfndi/accounting-finance-manager/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		Description:     d.Description,
		TransactionDate: d.TransactionDate,
		CurrencyCode:    d.CurrencyCode,
		Reference:       d.Reference,
		EntityID:        d.EntityID,
		Status:          models.TransactionStatus(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		Description:     m.Description,
		TransactionDate: m.TransactionDate,
		CurrencyCode:    m.CurrencyCode,
		Reference:       m.Reference,
		EntityID:        m.EntityID,
		Status:          domain.TransactionStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID:   d.JournalEntryID,
		TransactionID:    d.TransactionID,
		AccountID:        d.AccountID,
		Description:      d.Description,
		CurrencyCode:     d.CurrencyCode,
		DebitAmount:      d.DebitAmount,
		CreditAmount:     d.CreditAmount,
		ExchangeRate:     d.ExchangeRate,
		BaseCurrencyCode: d.BaseCurrencyCode,
		BaseDebitAmount:  d.BaseDebitAmount,
		BaseCreditAmount: d.BaseCreditAmount,
		EntryDate:        d.EntryDate,
		EntityID:         d.EntityID,
		IsReconciled:     d.IsReconciled,
		ReconciliationID: d.ReconciliationID,
		ReconciledAt:     d.ReconciledAt,
		ReconciledBy:     d.ReconciledBy,
		RunningBalance:   d.RunningBalance,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID:   m.JournalEntryID,
		TransactionID:    m.TransactionID,
		AccountID:        m.AccountID,
		Description:      m.Description,
		CurrencyCode:     m.CurrencyCode,
		DebitAmount:      m.DebitAmount,
		CreditAmount:     m.CreditAmount,
		ExchangeRate:     m.ExchangeRate,
		BaseCurrencyCode: m.BaseCurrencyCode,
		BaseDebitAmount:  m.BaseDebitAmount,
		BaseCreditAmount: m.BaseCreditAmount,
		EntryDate:        m.EntryDate,
		EntityID:         m.EntityID,
		IsReconciled:     m.IsReconciled,
		ReconciliationID: m.ReconciliationID,
		ReconciledAt:     m.ReconciledAt,
		ReconciledBy:     m.ReconciledBy,
		RunningBalance:   m.RunningBalance,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntrySlice converts a slice of model JournalEntries to domain JournalEntries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}

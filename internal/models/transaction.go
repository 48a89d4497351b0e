package models

import "time"

// TransactionStatus mirrors domain.TransactionStatus for persistence.
type TransactionStatus string

// Transaction is the database row shape for a transaction header.
type Transaction struct {
	TransactionID   string            `db:"transaction_id"` // UUID
	Description     string            `db:"description"`
	TransactionDate time.Time         `db:"transaction_date"`
	CurrencyCode    string            `db:"currency_code"`
	Reference       string            `db:"reference"` // Nullable external document reference
	EntityID        string            `db:"entity_id"`
	Status          TransactionStatus `db:"status"`
	AuditFields
}

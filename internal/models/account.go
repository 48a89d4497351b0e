package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for persistence.
type AccountType string

// NormalBalance mirrors domain.NormalBalance for persistence.
type NormalBalance string

// Account is the database row shape for a ledger account.
// ParentAccountID is nullable; NULL means a root of the hierarchy.
type Account struct {
	AccountID         int64           `db:"account_id"`
	Code              string          `db:"code"`
	Name              string          `db:"name"`
	AccountType       AccountType     `db:"account_type"`
	NormalBalance     NormalBalance   `db:"normal_balance"`
	ParentAccountID   *int64          `db:"parent_account_id"`
	IsActive          bool            `db:"is_active"`
	AllowTransactions bool            `db:"allow_transactions"`
	CurrentBalance    decimal.Decimal `db:"current_balance"` // Cached base-currency balance
	EntityID          string          `db:"entity_id"`
	AuditFields
}

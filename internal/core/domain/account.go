package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account type's balance is conventionally positive.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// NormalBalanceForType derives the normal balance from the account type.
// The mapping is fixed by accounting convention:
// ASSET/EXPENSE -> DEBIT, LIABILITY/EQUITY/REVENUE -> CREDIT.
// An unknown type is a data-integrity problem, never a validation issue.
func NormalBalanceForType(t AccountType) (NormalBalance, error) {
	switch t {
	case Asset, Expense:
		return DebitNormal, nil
	case Liability, Equity, Revenue:
		return CreditNormal, nil
	default:
		return "", fmt.Errorf("unknown account type %q", t)
	}
}

// CanHaveChildren reports whether the account type may parent other accounts.
// Revenue and expense accounts are leaf-only in this model.
func (t AccountType) CanHaveChildren() bool {
	switch t {
	case Asset, Liability, Equity:
		return true
	default:
		return false
	}
}

// Account represents a ledger account within the core domain.
type Account struct {
	AccountID         int64           `json:"accountID"`
	Code              string          `json:"code"` // Unique, 2-20 chars, alphanumeric plus dot/hyphen
	Name              string          `json:"name"`
	AccountType       AccountType     `json:"accountType"`
	NormalBalance     NormalBalance   `json:"normalBalance"` // Always derivable from AccountType
	ParentAccountID   *int64          `json:"parentAccountID,omitempty"`
	IsActive          bool            `json:"isActive"`
	AllowTransactions bool            `json:"allowTransactions"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"` // Cached, base currency
	EntityID          string          `json:"entityID"`
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is a single account line in a trial balance report.
// Exactly one of Debit/Credit carries the account's reported balance.
type TrialBalanceRow struct {
	AccountID   int64           `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists all account balances and checks total debits equal
// total credits.
type TrialBalance struct {
	AsOf         time.Time         `json:"asOf"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	IsBalanced   bool              `json:"isBalanced"`
}

// AccountAmount is an account with its reported net amount for a report.
type AccountAmount struct {
	AccountID   int64           `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// BalanceSheet partitions accounts by type. Liabilities and equity are
// reported as positive magnitudes even though their raw ledger balance is
// credit-signed. IsBalanced asserts the fundamental accounting identity
// totalAssets == totalLiabilities + totalEquity within 0.01.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	IsBalanced       bool            `json:"isBalanced"`
}

// IncomeStatement nets revenue and expense activity over [From, To].
type IncomeStatement struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

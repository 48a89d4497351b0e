package accounting_test

import (
	"testing"
	"time"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/irfndi/accounting-finance-manager/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitEntry(accountID int64, amount int64) domain.TransactionEntry {
	return domain.TransactionEntry{
		AccountID:    accountID,
		DebitAmount:  decimal.NewFromInt(amount),
		CurrencyCode: "USD",
	}
}

func creditEntry(accountID int64, amount int64) domain.TransactionEntry {
	return domain.TransactionEntry{
		AccountID:    accountID,
		CreditAmount: decimal.NewFromInt(amount),
		CurrencyCode: "USD",
	}
}

func validData(entries ...domain.TransactionEntry) domain.TransactionData {
	return domain.TransactionData{
		Description:     "Office Supplies",
		TransactionDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		CurrencyCode:    "USD",
		EntityID:        "entity-1",
		Entries:         entries,
	}
}

func codes(issues []domain.ValidationIssue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func TestValidateTransactionData_BalancedTransaction(t *testing.T) {
	data := validData(debitEntry(1000, 250000), creditEntry(2000, 250000))

	issues := accounting.ValidateTransactionData(data)

	assert.Empty(t, issues)
}

func TestValidateTransactionData_Unbalanced(t *testing.T) {
	data := validData(debitEntry(1000, 100), creditEntry(2000, 90))

	issues := accounting.ValidateTransactionData(data)

	require.Len(t, issues, 1)
	assert.Equal(t, domain.CodeUnbalanced, issues[0].Code)
}

func TestValidateTransactionData_SingleEntryDoesNotShortCircuit(t *testing.T) {
	data := validData(debitEntry(1000, 100))

	issues := accounting.ValidateTransactionData(data)

	assert.Contains(t, codes(issues), domain.CodeInsufficientEntries)
	// A lone debit is also unbalanced; the balance check still runs.
	assert.Contains(t, codes(issues), domain.CodeUnbalanced)
}

func TestValidateTransactionData_BothDebitAndCredit(t *testing.T) {
	both := domain.TransactionEntry{
		AccountID:    1000,
		DebitAmount:  decimal.NewFromInt(50),
		CreditAmount: decimal.NewFromInt(50),
		CurrencyCode: "USD",
	}
	data := validData(both, creditEntry(2000, 50))

	issues := accounting.ValidateTransactionData(data)

	require.NotEmpty(t, issues)
	assert.Equal(t, domain.CodeBothDebitAndCredit, issues[0].Code)
	assert.Equal(t, "entries[0].debitAmount", issues[0].Field)
}

func TestValidateTransactionData_NoAmount(t *testing.T) {
	empty := domain.TransactionEntry{AccountID: 1000, CurrencyCode: "USD"}
	data := validData(empty, creditEntry(2000, 50))

	issues := accounting.ValidateTransactionData(data)

	assert.Contains(t, codes(issues), domain.CodeNoAmount)
}

func TestValidateTransactionData_MissingEntryAccount(t *testing.T) {
	entry := domain.TransactionEntry{DebitAmount: decimal.NewFromInt(10), CurrencyCode: "USD"}
	data := validData(entry, creditEntry(2000, 10))

	issues := accounting.ValidateTransactionData(data)

	require.NotEmpty(t, issues)
	assert.Equal(t, domain.CodeMissingAccountID, issues[0].Code)
}

func TestValidateTransactionData_NegativeAmounts(t *testing.T) {
	entry := domain.TransactionEntry{
		AccountID:    1000,
		DebitAmount:  decimal.NewFromInt(-10),
		CurrencyCode: "USD",
	}
	data := validData(entry, creditEntry(2000, 10))

	issues := accounting.ValidateTransactionData(data)

	assert.Contains(t, codes(issues), domain.CodeNegativeDebit)
}

func TestValidateTransactionData_TransactionLevelIssuesComeLast(t *testing.T) {
	entry := domain.TransactionEntry{DebitAmount: decimal.NewFromInt(-5), CurrencyCode: "USD"}
	data := domain.TransactionData{Entries: []domain.TransactionEntry{entry}}

	issues := accounting.ValidateTransactionData(data)

	got := codes(issues)
	// Per-entry issues first, in entry order, then transaction-level ones.
	assert.Equal(t, domain.CodeMissingAccountID, got[0])
	assert.Equal(t, domain.CodeNegativeDebit, got[1])
	assert.Contains(t, got[2:], domain.CodeMissingDescription)
	assert.Contains(t, got[2:], domain.CodeMissingDate)
	assert.Contains(t, got[2:], domain.CodeInsufficientEntries)
}

func TestValidateTransactionData_NoEntries(t *testing.T) {
	data := validData()

	issues := accounting.ValidateTransactionData(data)

	require.Len(t, issues, 1)
	assert.Equal(t, domain.CodeNoEntries, issues[0].Code)
}

func TestValidateTransactionData_PerCurrencyGroups(t *testing.T) {
	eur := domain.TransactionEntry{
		AccountID:    3000,
		DebitAmount:  decimal.NewFromInt(70),
		CurrencyCode: "EUR",
	}
	eurCredit := domain.TransactionEntry{
		AccountID:    4000,
		CreditAmount: decimal.NewFromInt(70),
		CurrencyCode: "EUR",
	}
	data := validData(debitEntry(1000, 100), creditEntry(2000, 100), eur, eurCredit)

	issues := accounting.ValidateTransactionData(data)

	assert.Empty(t, issues)
}

func TestValidateTransactionData_MixedCurrencyTolerance(t *testing.T) {
	eur := domain.TransactionEntry{
		AccountID:    3000,
		DebitAmount:  decimal.RequireFromString("70.004"),
		CurrencyCode: "EUR",
	}
	eurCredit := domain.TransactionEntry{
		AccountID:    4000,
		CreditAmount: decimal.RequireFromString("70.00"),
		CurrencyCode: "EUR",
	}
	data := validData(debitEntry(1000, 100), creditEntry(2000, 100), eur, eurCredit)

	issues := accounting.ValidateTransactionData(data)

	assert.Empty(t, issues)
}

func TestValidateTransactionData_RoundingBeforeComparison(t *testing.T) {
	debit := domain.TransactionEntry{
		AccountID:    1000,
		DebitAmount:  decimal.RequireFromString("33.333"),
		CurrencyCode: "USD",
	}
	credit := domain.TransactionEntry{
		AccountID:    2000,
		CreditAmount: decimal.RequireFromString("33.334"),
		CurrencyCode: "USD",
	}
	data := validData(debit, credit)

	issues := accounting.ValidateTransactionData(data)

	// Both sides round to 33.33 at two decimal places.
	assert.Empty(t, issues)
}

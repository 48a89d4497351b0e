package accounting

import (
	"fmt"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateTransactionData runs the structural and balance checks over a
// proposed transaction. It is a pure function: no I/O, no side effects,
// and it never fails — problems come back as an issue list.
//
// Issue ordering is a contract: per-entry issues appear first, in entry
// order, followed by transaction-level issues. Callers snapshot this
// ordering in UI and tests.
func ValidateTransactionData(data domain.TransactionData) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	for i, entry := range data.Entries {
		issues = append(issues, validateEntry(i, entry)...)
	}

	if data.Description == "" {
		issues = append(issues, domain.ValidationIssue{
			Field:   "description",
			Message: "transaction description is required",
			Code:    domain.CodeMissingDescription,
		})
	}
	if data.TransactionDate.IsZero() {
		issues = append(issues, domain.ValidationIssue{
			Field:   "transactionDate",
			Message: "transaction date is required",
			Code:    domain.CodeMissingDate,
		})
	}
	if data.CurrencyCode == "" {
		issues = append(issues, domain.ValidationIssue{
			Field:   "currencyCode",
			Message: "transaction currency is required",
			Code:    domain.CodeInvalidCurrency,
		})
	}

	switch len(data.Entries) {
	case 0:
		issues = append(issues, domain.ValidationIssue{
			Field:   "entries",
			Message: "transaction has no entries",
			Code:    domain.CodeNoEntries,
		})
	case 1:
		issues = append(issues, domain.ValidationIssue{
			Field:   "entries",
			Message: "transaction requires at least two entries",
			Code:    domain.CodeInsufficientEntries,
		})
	}

	issues = append(issues, validateBalance(data)...)
	return issues
}

func validateEntry(index int, entry domain.TransactionEntry) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	field := func(name string) string { return fmt.Sprintf("entries[%d].%s", index, name) }

	if entry.AccountID <= 0 {
		issues = append(issues, domain.ValidationIssue{
			Field:   field("accountID"),
			Message: "entry is missing an account id",
			Code:    domain.CodeMissingAccountID,
		})
	}
	if entry.DebitAmount.IsNegative() {
		issues = append(issues, domain.ValidationIssue{
			Field:   field("debitAmount"),
			Message: "debit amount must not be negative",
			Code:    domain.CodeNegativeDebit,
		})
	}
	if entry.CreditAmount.IsNegative() {
		issues = append(issues, domain.ValidationIssue{
			Field:   field("creditAmount"),
			Message: "credit amount must not be negative",
			Code:    domain.CodeNegativeCredit,
		})
	}

	hasDebit := entry.DebitAmount.IsPositive()
	hasCredit := entry.CreditAmount.IsPositive()
	switch {
	case hasDebit && hasCredit:
		issues = append(issues, domain.ValidationIssue{
			Field:   field("debitAmount"),
			Message: "entry has both a debit and a credit amount",
			Code:    domain.CodeBothDebitAndCredit,
		})
	case !hasDebit && !hasCredit:
		issues = append(issues, domain.ValidationIssue{
			Field:   field("debitAmount"),
			Message: "entry has neither a debit nor a credit amount",
			Code:    domain.CodeNoAmount,
		})
	}
	return issues
}

// validateBalance groups entries by currency and checks each group's
// rounded debit and credit totals. Comparison is exact unless currency
// conversion is in play (an entry currency differing from the transaction
// currency), in which case rounding differences of up to 0.01 per group
// are tolerated.
func validateBalance(data domain.TransactionData) []domain.ValidationIssue {
	if len(data.Entries) == 0 {
		return nil
	}

	type totals struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}
	groups := make(map[string]*totals)
	order := make([]string, 0, 2)
	mixed := false

	for _, entry := range data.Entries {
		currency := entry.CurrencyCode
		if currency == "" {
			currency = data.CurrencyCode
		}
		if currency != data.CurrencyCode {
			mixed = true
		}
		group, ok := groups[currency]
		if !ok {
			group = &totals{}
			groups[currency] = group
			order = append(order, currency)
		}
		group.debits = group.debits.Add(entry.DebitAmount)
		group.credits = group.credits.Add(entry.CreditAmount)
	}

	var issues []domain.ValidationIssue
	for _, currency := range order {
		group := groups[currency]
		debits := RoundMoney(group.debits)
		credits := RoundMoney(group.credits)

		balanced := debits.Equal(credits)
		if mixed {
			balanced = WithinTolerance(debits, credits)
		}
		if !balanced {
			issues = append(issues, domain.ValidationIssue{
				Field: "entries",
				Message: fmt.Sprintf("debits (%s) do not equal credits (%s) for currency %s",
					debits.String(), credits.String(), currency),
				Code: domain.CodeUnbalanced,
			})
		}
	}
	return issues
}

package accounting

import (
	"fmt"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportedBalance applies the normal-balance sign convention:
// DEBIT-normal accounts report debits - credits, CREDIT-normal accounts
// report credits - debits. This is the single place the convention lives;
// every displayed balance goes through it.
func ReportedBalance(normal domain.NormalBalance, debits, credits decimal.Decimal) decimal.Decimal {
	if normal == domain.CreditNormal {
		return credits.Sub(debits)
	}
	return debits.Sub(credits)
}

// SignedEntryAmount returns the base-currency effect of a journal entry on
// its account's reported balance, given the account type.
func SignedEntryAmount(entry domain.JournalEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	normal, err := domain.NormalBalanceForType(accountType)
	if err != nil {
		return decimal.Zero, fmt.Errorf("account %d: %w", entry.AccountID, err)
	}
	return ReportedBalance(normal, entry.BaseDebitAmount, entry.BaseCreditAmount), nil
}

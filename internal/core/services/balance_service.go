package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/irfndi/accounting-finance-manager/internal/core/registry"
	"github.com/irfndi/accounting-finance-manager/internal/utils/accounting"
)

// BalanceManager maintains derived account balances from posted journal
// entries. It is never authoritative: the whole state can be rebuilt at
// any time by replaying entry history. Aggregates accumulate at full
// decimal precision and are rounded once at report boundaries.
type BalanceManager struct {
	mu       sync.RWMutex
	accounts *registry.Registry
	entries  map[int64][]domain.JournalEntry // posted entries per account
	posted   map[string]bool                 // transaction ids already applied
}

// NewBalanceManager creates a balance manager over the given registry.
func NewBalanceManager(accounts *registry.Registry) *BalanceManager {
	return &BalanceManager{
		accounts: accounts,
		entries:  make(map[int64][]domain.JournalEntry),
		posted:   make(map[string]bool),
	}
}

// AddTransaction applies a posted transaction's entries. Applying the
// same transaction id twice is a no-op, which keeps posting idempotent
// under at-least-once delivery.
func (b *BalanceManager) AddTransaction(tx domain.Transaction, entries []domain.JournalEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.posted[tx.TransactionID] {
		return
	}
	b.posted[tx.TransactionID] = true
	for _, entry := range entries {
		b.entries[entry.AccountID] = append(b.entries[entry.AccountID], entry)
	}
}

// Rebuild discards all derived state and replays stored history. Only
// entries belonging to a POSTED transaction apply: DRAFT entries must not
// surface in balances, and their transaction ids stay unapplied so a
// later posting still takes effect.
func (b *BalanceManager) Rebuild(transactions []domain.Transaction, entries []domain.JournalEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[int64][]domain.JournalEntry)
	b.posted = make(map[string]bool)
	for _, tx := range transactions {
		if tx.Status == domain.Posted {
			b.posted[tx.TransactionID] = true
		}
	}
	for _, entry := range entries {
		if !b.posted[entry.TransactionID] {
			continue
		}
		b.entries[entry.AccountID] = append(b.entries[entry.AccountID], entry)
	}
}

func (b *BalanceManager) accountTotals(accountID int64, asOf *time.Time) (debits, credits decimal.Decimal) {
	for _, entry := range b.entries[accountID] {
		if asOf != nil && entry.EntryDate.After(*asOf) {
			continue
		}
		debits = debits.Add(entry.BaseDebitAmount)
		credits = credits.Add(entry.BaseCreditAmount)
	}
	return debits, credits
}

// AccountBalance returns the account's reported balance in base currency,
// optionally bounded to entries dated on or before asOf. The value is
// rounded at this presentation boundary.
func (b *BalanceManager) AccountBalance(accountID int64, asOf *time.Time) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	account, ok := b.accounts.GetByID(accountID)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	debits, credits := b.accountTotals(accountID, asOf)
	return accounting.RoundMoney(accounting.ReportedBalance(account.NormalBalance, debits, credits)), nil
}

// TrialBalance lists every registered account's reported balance in its
// normal column (flipping columns for contra balances) and checks total
// debits equal total credits within 0.01.
func (b *BalanceManager) TrialBalance(asOf *time.Time) (*domain.TrialBalance, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	accounts := b.accounts.All()
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	report := &domain.TrialBalance{Rows: make([]domain.TrialBalanceRow, 0, len(accounts))}
	if asOf != nil {
		report.AsOf = *asOf
	} else {
		report.AsOf = time.Now().UTC()
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, account := range accounts {
		debits, credits := b.accountTotals(account.AccountID, asOf)
		reported := accounting.ReportedBalance(account.NormalBalance, debits, credits)

		row := domain.TrialBalanceRow{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
		}
		debitSide := account.NormalBalance == domain.DebitNormal
		if reported.IsNegative() {
			debitSide = !debitSide
			reported = reported.Abs()
		}
		if debitSide {
			row.Debit = reported
			totalDebits = totalDebits.Add(reported)
		} else {
			row.Credit = reported
			totalCredits = totalCredits.Add(reported)
		}
		row.Debit = accounting.RoundMoney(row.Debit)
		row.Credit = accounting.RoundMoney(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	report.TotalDebits = accounting.RoundMoney(totalDebits)
	report.TotalCredits = accounting.RoundMoney(totalCredits)
	report.IsBalanced = accounting.WithinTolerance(totalDebits, totalCredits)
	return report, nil
}

// BalanceSheet partitions accounts into assets, liabilities, and equity,
// reporting liabilities and equity as positive magnitudes. Net income for
// the period to date is folded into equity as current period earnings so
// the accounting identity holds after every posting.
func (b *BalanceManager) BalanceSheet(asOf *time.Time) (*domain.BalanceSheet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	report := &domain.BalanceSheet{}
	if asOf != nil {
		report.AsOf = *asOf
	} else {
		report.AsOf = time.Now().UTC()
	}

	totalAssets := decimal.Zero
	totalLiabilities := decimal.Zero
	totalEquity := decimal.Zero

	for _, section := range []struct {
		accountType domain.AccountType
		bucket      *[]domain.AccountAmount
		total       *decimal.Decimal
	}{
		{domain.Asset, &report.Assets, &totalAssets},
		{domain.Liability, &report.Liabilities, &totalLiabilities},
		{domain.Equity, &report.Equity, &totalEquity},
	} {
		accounts := b.accounts.ByType(section.accountType)
		sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
		for _, account := range accounts {
			debits, credits := b.accountTotals(account.AccountID, asOf)
			reported := accounting.ReportedBalance(account.NormalBalance, debits, credits)
			*section.total = section.total.Add(reported)
			*section.bucket = append(*section.bucket, domain.AccountAmount{
				AccountID:   account.AccountID,
				AccountCode: account.Code,
				Name:        account.Name,
				NetAmount:   accounting.RoundMoney(reported),
			})
		}
	}

	earnings := b.netIncomeLocked(nil, asOf)
	if !earnings.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{
			Name:      "Current Period Earnings",
			NetAmount: accounting.RoundMoney(earnings),
		})
		totalEquity = totalEquity.Add(earnings)
	}

	report.TotalAssets = accounting.RoundMoney(totalAssets)
	report.TotalLiabilities = accounting.RoundMoney(totalLiabilities)
	report.TotalEquity = accounting.RoundMoney(totalEquity)
	report.IsBalanced = accounting.WithinTolerance(totalAssets, totalLiabilities.Add(totalEquity))
	return report, nil
}

// netIncomeLocked sums revenue minus expenses over (from, asOf]. Callers
// must hold at least the read lock.
func (b *BalanceManager) netIncomeLocked(from, to *time.Time) decimal.Decimal {
	income := decimal.Zero
	for _, account := range b.accounts.ByType(domain.Revenue) {
		debits, credits := b.accountTotalsBetween(account.AccountID, from, to)
		income = income.Add(credits.Sub(debits))
	}
	for _, account := range b.accounts.ByType(domain.Expense) {
		debits, credits := b.accountTotalsBetween(account.AccountID, from, to)
		income = income.Sub(debits.Sub(credits))
	}
	return income
}

func (b *BalanceManager) accountTotalsBetween(accountID int64, from, to *time.Time) (debits, credits decimal.Decimal) {
	for _, entry := range b.entries[accountID] {
		if from != nil && entry.EntryDate.Before(*from) {
			continue
		}
		if to != nil && entry.EntryDate.After(*to) {
			continue
		}
		debits = debits.Add(entry.BaseDebitAmount)
		credits = credits.Add(entry.BaseCreditAmount)
	}
	return debits, credits
}

// IncomeStatement nets revenue as credit-debit and expenses as
// debit-credit for entries dated within [from, to] inclusive.
func (b *BalanceManager) IncomeStatement(from, to time.Time) (*domain.IncomeStatement, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	report := &domain.IncomeStatement{From: from, To: to}
	totalRevenue := decimal.Zero
	totalExpenses := decimal.Zero

	revenueAccounts := b.accounts.ByType(domain.Revenue)
	sort.Slice(revenueAccounts, func(i, j int) bool { return revenueAccounts[i].Code < revenueAccounts[j].Code })
	for _, account := range revenueAccounts {
		debits, credits := b.accountTotalsBetween(account.AccountID, &from, &to)
		net := credits.Sub(debits)
		totalRevenue = totalRevenue.Add(net)
		report.Revenue = append(report.Revenue, domain.AccountAmount{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			Name:        account.Name,
			NetAmount:   accounting.RoundMoney(net),
		})
	}

	expenseAccounts := b.accounts.ByType(domain.Expense)
	sort.Slice(expenseAccounts, func(i, j int) bool { return expenseAccounts[i].Code < expenseAccounts[j].Code })
	for _, account := range expenseAccounts {
		debits, credits := b.accountTotalsBetween(account.AccountID, &from, &to)
		net := debits.Sub(credits)
		totalExpenses = totalExpenses.Add(net)
		report.Expenses = append(report.Expenses, domain.AccountAmount{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			Name:        account.Name,
			NetAmount:   accounting.RoundMoney(net),
		})
	}

	report.TotalRevenue = accounting.RoundMoney(totalRevenue)
	report.TotalExpenses = accounting.RoundMoney(totalExpenses)
	report.NetIncome = accounting.RoundMoney(totalRevenue.Sub(totalExpenses))
	return report, nil
}

// HasTransaction reports whether a transaction id has been applied.
func (b *BalanceManager) HasTransaction(transactionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.posted[transactionID]
}

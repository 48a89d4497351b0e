package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/core/registry"
	"github.com/irfndi/accounting-finance-manager/internal/core/services"
)

type ledgerServiceFixture struct {
	service     portssvc.LedgerSvcFacade
	accountRepo *MockAccountRepository
	ledgerRepo  *MockLedgerRepository
	balances    *services.BalanceManager
	registry    *registry.Registry
}

func newLedgerServiceFixture(t *testing.T) *ledgerServiceFixture {
	t.Helper()
	accountRepo := new(MockAccountRepository)
	ledgerRepo := new(MockLedgerRepository)
	reg := newTestRegistry(t)
	journals := services.NewJournalEntryManager(
		reg,
		services.NewStaticRateProvider(services.DefaultRateTable()),
		services.NewCurrencyService(),
		ledgerRepo,
		services.JournalEntryManagerOptions{},
	)
	balances := services.NewBalanceManager(reg)
	return &ledgerServiceFixture{
		service:     services.NewLedgerService(accountRepo, ledgerRepo, journals, balances),
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		balances:    balances,
		registry:    reg,
	}
}

func TestLedgerService_ValidateTransactionData(t *testing.T) {
	fixture := newLedgerServiceFixture(t)

	issues := fixture.service.ValidateTransactionData(sampleTransactionData())
	assert.Empty(t, issues)

	unbalanced := sampleTransactionData()
	unbalanced.Entries[1].CreditAmount = decimal.RequireFromString("1400")
	issues = fixture.service.ValidateTransactionData(unbalanced)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.CodeUnbalanced, issues[0].Code)
}

func TestLedgerService_CreateAndPersistTransaction(t *testing.T) {
	fixture := newLedgerServiceFixture(t)
	fixture.ledgerRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.Status == domain.Draft && tx.EntityID == "acme" && tx.TransactionID != ""
	})).Return(nil)
	fixture.ledgerRepo.On("CreateJournalEntries", mock.Anything, mock.MatchedBy(func(entries []domain.JournalEntry) bool {
		return len(entries) == 2
	})).Return(nil)

	result, err := fixture.service.CreateAndPersistTransaction(context.Background(), sampleTransactionData(), "tester")
	require.NoError(t, err)
	assert.Equal(t, domain.Draft, result.Transaction.Status)
	assert.Len(t, result.JournalEntries, 2)
	assert.Equal(t, result.Transaction.TransactionID, result.JournalEntries[0].TransactionID)
	fixture.ledgerRepo.AssertExpectations(t)
}

func TestLedgerService_CreateAndPersistTransaction_InvalidDataNeverPersists(t *testing.T) {
	fixture := newLedgerServiceFixture(t)

	data := sampleTransactionData()
	data.Entries[1].CreditAmount = decimal.RequireFromString("1400")

	_, err := fixture.service.CreateAndPersistTransaction(context.Background(), data, "tester")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var accErr *apperrors.AccountingError
	require.ErrorAs(t, err, &accErr)
	require.Len(t, accErr.Issues, 1)
	assert.Equal(t, domain.CodeUnbalanced, accErr.Issues[0].Code)

	fixture.ledgerRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	fixture.ledgerRepo.AssertNotCalled(t, "CreateJournalEntries", mock.Anything, mock.Anything)
}

func TestLedgerService_CreateAndPersistTransaction_RegistryIssuesBlockPersistence(t *testing.T) {
	fixture := newLedgerServiceFixture(t)

	// Structurally valid, but posted against a non-posting account.
	require.NoError(t, fixture.registry.Register(domain.Account{
		AccountID: 1900, Code: "1900", Name: "Summary", AccountType: domain.Asset,
		IsActive: true, AllowTransactions: false, EntityID: "acme",
	}))
	data := sampleTransactionData()
	data.Entries[0].AccountID = 1900

	_, err := fixture.service.CreateAndPersistTransaction(context.Background(), data, "tester")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	fixture.ledgerRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestLedgerService_PostTransaction(t *testing.T) {
	fixture := newLedgerServiceFixture(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	draft := &domain.Transaction{TransactionID: "tx-1", EntityID: "acme", Status: domain.Draft, TransactionDate: date}
	entries := []domain.JournalEntry{
		{JournalEntryID: "je-1", TransactionID: "tx-1", AccountID: 5000,
			DebitAmount: decimal.RequireFromString("1500"), BaseDebitAmount: decimal.RequireFromString("1500"), EntryDate: date},
		{JournalEntryID: "je-2", TransactionID: "tx-1", AccountID: 1000,
			CreditAmount: decimal.RequireFromString("1500"), BaseCreditAmount: decimal.RequireFromString("1500"), EntryDate: date},
	}

	fixture.ledgerRepo.On("FindTransactionByID", mock.Anything, "tx-1").Return(draft, nil)
	fixture.ledgerRepo.On("FindJournalEntriesByTransaction", mock.Anything, "tx-1").Return(entries, nil)
	fixture.ledgerRepo.On("UpdateTransactionStatus", mock.Anything, "tx-1", domain.Posted, "tester", mock.Anything).Return(nil)
	fixture.accountRepo.On("UpdateAccountBalance", mock.Anything, int64(5000),
		mock.MatchedBy(func(balance decimal.Decimal) bool { return balance.Equal(decimal.RequireFromString("1500")) }),
		"tester", mock.Anything).Return(nil)
	fixture.accountRepo.On("UpdateAccountBalance", mock.Anything, int64(1000),
		mock.MatchedBy(func(balance decimal.Decimal) bool { return balance.Equal(decimal.RequireFromString("-1500")) }),
		"tester", mock.Anything).Return(nil)

	err := fixture.service.PostTransaction(context.Background(), "tx-1", "tester")
	require.NoError(t, err)
	assert.True(t, fixture.balances.HasTransaction("tx-1"))
	fixture.ledgerRepo.AssertExpectations(t)
	fixture.accountRepo.AssertExpectations(t)
}

func TestLedgerService_PostTransaction_AlreadyPostedIsNoOp(t *testing.T) {
	fixture := newLedgerServiceFixture(t)

	posted := &domain.Transaction{TransactionID: "tx-1", EntityID: "acme", Status: domain.Posted}
	fixture.ledgerRepo.On("FindTransactionByID", mock.Anything, "tx-1").Return(posted, nil)

	err := fixture.service.PostTransaction(context.Background(), "tx-1", "tester")
	require.NoError(t, err)
	fixture.ledgerRepo.AssertNotCalled(t, "UpdateTransactionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	fixture.accountRepo.AssertNotCalled(t, "UpdateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_PostTransaction_UnregisteredAccountSkipsBalanceCache(t *testing.T) {
	fixture := newLedgerServiceFixture(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	draft := &domain.Transaction{TransactionID: "tx-1", EntityID: "acme", Status: domain.Draft, TransactionDate: date}
	entries := []domain.JournalEntry{
		{JournalEntryID: "je-1", TransactionID: "tx-1", AccountID: 77777,
			DebitAmount: decimal.RequireFromString("10"), BaseDebitAmount: decimal.RequireFromString("10"), EntryDate: date},
		{JournalEntryID: "je-2", TransactionID: "tx-1", AccountID: 1000,
			CreditAmount: decimal.RequireFromString("10"), BaseCreditAmount: decimal.RequireFromString("10"), EntryDate: date},
	}

	fixture.ledgerRepo.On("FindTransactionByID", mock.Anything, "tx-1").Return(draft, nil)
	fixture.ledgerRepo.On("FindJournalEntriesByTransaction", mock.Anything, "tx-1").Return(entries, nil)
	fixture.ledgerRepo.On("UpdateTransactionStatus", mock.Anything, "tx-1", domain.Posted, "tester", mock.Anything).Return(nil)
	fixture.accountRepo.On("UpdateAccountBalance", mock.Anything, int64(1000), mock.Anything, "tester", mock.Anything).Return(nil)

	err := fixture.service.PostTransaction(context.Background(), "tx-1", "tester")
	require.NoError(t, err)
	fixture.accountRepo.AssertNumberOfCalls(t, "UpdateAccountBalance", 1)
}

func TestLedgerService_ListJournalEntriesByAccount_DefaultLimit(t *testing.T) {
	fixture := newLedgerServiceFixture(t)
	fixture.ledgerRepo.On("ListJournalEntriesByAccount", mock.Anything, "acme", int64(1000), 20, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil)

	_, token, err := fixture.service.ListJournalEntriesByAccount(context.Background(), "acme", 1000, 0, nil)
	require.NoError(t, err)
	assert.Nil(t, token)
	fixture.ledgerRepo.AssertExpectations(t)
}

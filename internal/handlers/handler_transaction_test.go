package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/dto"
	"github.com/irfndi/accounting-finance-manager/internal/handlers"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) ValidateTransactionData(data domain.TransactionData) []domain.ValidationIssue {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ValidationIssue)
}

func (m *MockLedgerService) CreateAndPersistTransaction(ctx context.Context, data domain.TransactionData, creatorUserID string) (*dto.TransactionWithEntries, error) {
	args := m.Called(ctx, data, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionWithEntries), args.Error(1)
}

func (m *MockLedgerService) PostTransaction(ctx context.Context, transactionID string, userID string) error {
	args := m.Called(ctx, transactionID, userID)
	return args.Error(0)
}

func (m *MockLedgerService) GetJournalEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) ListJournalEntriesByAccount(ctx context.Context, entityID string, accountID int64, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, entityID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), nil, args.Error(2)
}

func (m *MockLedgerService) ReconcileJournalEntry(ctx context.Context, journalEntryID, reconciliationID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID, reconciliationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) UnreconcileJournalEntry(ctx context.Context, journalEntryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Suite ---

type TransactionHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	ledgerService *MockLedgerService
}

func (s *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ledgerService = new(MockLedgerService)
	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &portssvc.ServiceContainer{Ledger: s.ledgerService})
}

func (s *TransactionHandlerTestSuite) performJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func validCreateRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Description:     "Invoice #42",
		TransactionDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CurrencyCode:    "USD",
		EntityID:        "acme",
		Entries: []dto.TransactionEntryRequest{
			{AccountID: 1200, DebitAmount: decimal.RequireFromString("500")},
			{AccountID: 4000, CreditAmount: decimal.RequireFromString("500")},
		},
	}
}

func (s *TransactionHandlerTestSuite) TestValidateTransaction_ReturnsIssueList() {
	issues := []domain.ValidationIssue{{Field: "entries", Message: "debits do not equal credits", Code: domain.CodeUnbalanced}}
	s.ledgerService.On("ValidateTransactionData", mock.Anything).Return(issues)

	w := s.performJSON(http.MethodPost, "/api/v1/transactions/validate", validCreateRequest())

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ValidationResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.Valid)
	s.Len(resp.Issues, 1)
	s.Equal(domain.CodeUnbalanced, resp.Issues[0].Code)
}

func (s *TransactionHandlerTestSuite) TestValidateTransaction_ValidPayload() {
	s.ledgerService.On("ValidateTransactionData", mock.Anything).Return(nil)

	w := s.performJSON(http.MethodPost, "/api/v1/transactions/validate", validCreateRequest())

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ValidationResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.Valid)
	s.NotNil(resp.Issues)
	s.Empty(resp.Issues)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	result := &dto.TransactionWithEntries{
		Transaction: domain.Transaction{TransactionID: "tx-1", Status: domain.Draft},
	}
	s.ledgerService.On("CreateAndPersistTransaction", mock.Anything, mock.Anything, "system").Return(result, nil)

	w := s.performJSON(http.MethodPost, "/api/v1/transactions", validCreateRequest())

	s.Equal(http.StatusCreated, w.Code)
	s.ledgerService.AssertExpectations(s.T())
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ValidationIssuesBecome422() {
	issues := []domain.ValidationIssue{{Field: "entries", Message: "debits do not equal credits", Code: domain.CodeUnbalanced}}
	s.ledgerService.On("CreateAndPersistTransaction", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAccountingError("create transaction", issues))

	w := s.performJSON(http.MethodPost, "/api/v1/transactions", validCreateRequest())

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp dto.ValidationResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.Valid)
	s.Len(resp.Issues, 1)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_MalformedPayload() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(`{"description":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.ledgerService.AssertNotCalled(s.T(), "CreateAndPersistTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionHandlerTestSuite) TestPostTransaction() {
	s.ledgerService.On("PostTransaction", mock.Anything, "tx-1", "system").Return(nil)

	w := s.performJSON(http.MethodPost, "/api/v1/transactions/tx-1/post", nil)

	s.Equal(http.StatusOK, w.Code)
	s.ledgerService.AssertExpectations(s.T())
}

func (s *TransactionHandlerTestSuite) TestPostTransaction_NotFound() {
	s.ledgerService.On("PostTransaction", mock.Anything, "missing", mock.Anything).Return(apperrors.ErrNotFound)

	w := s.performJSON(http.MethodPost, "/api/v1/transactions/missing/post", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TransactionHandlerTestSuite) TestReconcile_ConflictBecomes409() {
	s.ledgerService.On("ReconcileJournalEntry", mock.Anything, "je-1", "stmt-1", mock.Anything).
		Return(nil, apperrors.ErrConflict)

	w := s.performJSON(http.MethodPost, "/api/v1/journal-entries/je-1/reconcile", dto.ReconcileRequest{ReconciliationID: "stmt-1"})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *TransactionHandlerTestSuite) TestReconcile_MissingIDFailsBinding() {
	w := s.performJSON(http.MethodPost, "/api/v1/journal-entries/je-1/reconcile", gin.H{})

	s.Equal(http.StatusBadRequest, w.Code)
	s.ledgerService.AssertNotCalled(s.T(), "ReconcileJournalEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

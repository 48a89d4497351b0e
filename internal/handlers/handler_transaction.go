package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/dto"
	"github.com/irfndi/accounting-finance-manager/internal/middleware"
)

// transactionHandler handles HTTP requests for the transaction lifecycle.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

// registerTransactionRoutes registers transaction and journal entry routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ls)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/validate", h.validateTransaction)
		transactions.POST("", h.createTransaction)
		transactions.POST("/:id/post", h.postTransaction)
		transactions.GET("/:id/entries", h.getTransactionEntries)
	}

	journalEntries := rg.Group("/journal-entries")
	{
		journalEntries.POST("/:id/reconcile", h.reconcileJournalEntry)
		journalEntries.DELETE("/:id/reconcile", h.unreconcileJournalEntry)
	}
}

// validateTransaction checks a proposed transaction without persisting
// anything. The response always carries HTTP 200 with the issue list;
// issues are data, not transport errors.
func (h *transactionHandler) validateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ValidateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	issues := h.ledgerService.ValidateTransactionData(req.ToTransactionData())
	if issues == nil {
		issues = []domain.ValidationIssue{}
	}
	c.JSON(http.StatusOK, dto.ValidationResponse{Valid: len(issues) == 0, Issues: issues})
}

func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromCtx(c.Request.Context())
	result, err := h.ledgerService.CreateAndPersistTransaction(c.Request.Context(), req.ToTransactionData(), actor)
	if err != nil {
		var accErr *apperrors.AccountingError
		switch {
		case errors.As(err, &accErr):
			logger.Warn("Transaction rejected by validation", slog.Int("issue_count", len(accErr.Issues)))
			c.JSON(http.StatusUnprocessableEntity, dto.ValidationResponse{Valid: false, Issues: accErr.Issues})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		}
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", result.Transaction.TransactionID))
	c.JSON(http.StatusCreated, result)
}

func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	actor := middleware.GetActorFromCtx(c.Request.Context())
	if err := h.ledgerService.PostTransaction(c.Request.Context(), transactionID, actor); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to post transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post transaction"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "POSTED"})
}

func (h *transactionHandler) getTransactionEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	entries, err := h.ledgerService.GetJournalEntriesByTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get journal entries", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entries"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ListJournalEntriesResponse{JournalEntries: entries})
}

func (h *transactionHandler) reconcileJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("id")

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromCtx(c.Request.Context())
	entry, err := h.ledgerService.ReconcileJournalEntry(c.Request.Context(), journalEntryID, req.ReconciliationID, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reconcile journal entry", slog.String("journal_entry_id", journalEntryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile journal entry"})
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *transactionHandler) unreconcileJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("id")

	actor := middleware.GetActorFromCtx(c.Request.Context())
	entry, err := h.ledgerService.UnreconcileJournalEntry(c.Request.Context(), journalEntryID, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to unreconcile journal entry", slog.String("journal_entry_id", journalEntryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unreconcile journal entry"})
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

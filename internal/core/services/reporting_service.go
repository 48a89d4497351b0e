package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/middleware"
)

// reportingService exposes the balance manager's aggregates to callers.
type reportingService struct {
	balances *BalanceManager
}

// NewReportingService creates a reporting service over the balance manager.
func NewReportingService(balances *BalanceManager) portssvc.ReportingSvcFacade {
	return &reportingService{balances: balances}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// AccountBalance returns the reported balance of one account.
func (s *reportingService) AccountBalance(ctx context.Context, accountID int64, asOf *time.Time) (decimal.Decimal, error) {
	balance, err := s.balances.AccountBalance(accountID, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute account balance: %w", err)
	}
	return balance, nil
}

// TrialBalance generates a trial balance report, optionally as of a date.
func (s *reportingService) TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	report, err := s.balances.TrialBalance(asOf)
	if err != nil {
		logger.Error("Failed to generate trial balance", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate trial balance: %w", err)
	}
	logger.Info("Trial balance generated",
		slog.Int("row_count", len(report.Rows)),
		slog.Bool("is_balanced", report.IsBalanced))
	return report, nil
}

// BalanceSheet generates a balance sheet report, optionally as of a date.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	report, err := s.balances.BalanceSheet(asOf)
	if err != nil {
		logger.Error("Failed to generate balance sheet", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate balance sheet: %w", err)
	}
	if !report.IsBalanced {
		logger.Warn("Balance sheet identity violated",
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
	}
	return report, nil
}

// IncomeStatement generates an income statement for [from, to] inclusive.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	report, err := s.balances.IncomeStatement(from, to)
	if err != nil {
		logger.Error("Failed to generate income statement", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate income statement: %w", err)
	}
	logger.Info("Income statement generated",
		slog.String("net_income", report.NetIncome.String()))
	return report, nil
}

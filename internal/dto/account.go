package dto

import (
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating a ledger account.
// NormalBalance is intentionally absent: it is derived from AccountType
// and must never be supplied independently.
type CreateAccountRequest struct {
	AccountID         int64              `json:"accountID" binding:"required,gt=0"`
	Code              string             `json:"code" binding:"required,min=2,max=20"`
	Name              string             `json:"name" binding:"required"`
	AccountType       domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID   *int64             `json:"parentAccountID,omitempty"`
	AllowTransactions *bool              `json:"allowTransactions,omitempty"` // Defaults to true
	EntityID          string             `json:"entityID" binding:"required"`
}

// AccountResponse is the account representation returned by the API.
type AccountResponse struct {
	AccountID         int64                `json:"accountID"`
	Code              string               `json:"code"`
	Name              string               `json:"name"`
	AccountType       domain.AccountType   `json:"accountType"`
	NormalBalance     domain.NormalBalance `json:"normalBalance"`
	ParentAccountID   *int64               `json:"parentAccountID,omitempty"`
	IsActive          bool                 `json:"isActive"`
	AllowTransactions bool                 `json:"allowTransactions"`
	CurrentBalance    decimal.Decimal      `json:"currentBalance"`
	EntityID          string               `json:"entityID"`
}

// ToAccountResponse converts a domain.Account to its API representation.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         account.AccountID,
		Code:              account.Code,
		Name:              account.Name,
		AccountType:       account.AccountType,
		NormalBalance:     account.NormalBalance,
		ParentAccountID:   account.ParentAccountID,
		IsActive:          account.IsActive,
		AllowTransactions: account.AllowTransactions,
		CurrentBalance:    account.CurrentBalance,
		EntityID:          account.EntityID,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

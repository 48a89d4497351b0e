package mapping

import (
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/irfndi/accounting-finance-manager/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:         d.AccountID,
		Code:              d.Code,
		Name:              d.Name,
		AccountType:       models.AccountType(d.AccountType),
		NormalBalance:     models.NormalBalance(d.NormalBalance),
		ParentAccountID:   d.ParentAccountID,
		IsActive:          d.IsActive,
		AllowTransactions: d.AllowTransactions,
		CurrentBalance:    d.CurrentBalance,
		EntityID:          d.EntityID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:         m.AccountID,
		Code:              m.Code,
		Name:              m.Name,
		AccountType:       domain.AccountType(m.AccountType),
		NormalBalance:     domain.NormalBalance(m.NormalBalance),
		ParentAccountID:   m.ParentAccountID,
		IsActive:          m.IsActive,
		AllowTransactions: m.AllowTransactions,
		CurrentBalance:    m.CurrentBalance,
		EntityID:          m.EntityID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

package registry_test

import (
	"testing"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/irfndi/accounting-finance-manager/internal/core/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(id int64, code string, t domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:         id,
		Code:              code,
		Name:              code,
		AccountType:       t,
		IsActive:          true,
		AllowTransactions: true,
		EntityID:          "entity-1",
	}
}

func TestRegister_DerivesNormalBalance(t *testing.T) {
	r := registry.New()

	require.NoError(t, r.Register(newAccount(1, "1000", domain.Asset)))
	require.NoError(t, r.Register(newAccount(2, "2000", domain.Liability)))

	asset, ok := r.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, domain.DebitNormal, asset.NormalBalance)

	liability, ok := r.GetByCode("2000")
	require.True(t, ok)
	assert.Equal(t, domain.CreditNormal, liability.NormalBalance)
}

func TestRegister_RejectsInconsistentNormalBalance(t *testing.T) {
	r := registry.New()
	account := newAccount(1, "1000", domain.Asset)
	account.NormalBalance = domain.CreditNormal

	err := r.Register(account)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegister_CodeCollision(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(newAccount(1, "1000", domain.Asset)))

	err := r.Register(newAccount(2, "1000", domain.Asset))

	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// Re-registering the same id under the same code is an update, not a collision.
	updated := newAccount(1, "1000", domain.Asset)
	updated.Name = "Cash on Hand"
	require.NoError(t, r.Register(updated))
	got, _ := r.GetByID(1)
	assert.Equal(t, "Cash on Hand", got.Name)
}

func TestRegister_CodeFormat(t *testing.T) {
	r := registry.New()

	assert.ErrorIs(t, r.Register(newAccount(1, "x", domain.Asset)), apperrors.ErrValidation)
	assert.ErrorIs(t, r.Register(newAccount(1, "has space", domain.Asset)), apperrors.ErrValidation)
	assert.NoError(t, r.Register(newAccount(1, "1000.01-A", domain.Asset)))
}

func TestRegister_ParentRules(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(newAccount(1, "1000", domain.Asset)))
	require.NoError(t, r.Register(newAccount(5, "5000", domain.Expense)))

	child := newAccount(2, "1000.1", domain.Asset)
	parentID := int64(1)
	child.ParentAccountID = &parentID
	require.NoError(t, r.Register(child))

	// Expense accounts are leaf-only.
	orphan := newAccount(3, "5000.1", domain.Expense)
	expenseParent := int64(5)
	orphan.ParentAccountID = &expenseParent
	assert.ErrorIs(t, r.Register(orphan), apperrors.ErrValidation)

	// Unregistered parent comes back as a validation error, not a no-op.
	missing := newAccount(4, "1000.2", domain.Asset)
	nobody := int64(99)
	missing.ParentAccountID = &nobody
	assert.ErrorIs(t, r.Register(missing), apperrors.ErrValidation)
}

func TestRegister_CycleDetection(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(newAccount(1, "1000", domain.Asset)))

	child := newAccount(2, "1000.1", domain.Asset)
	one := int64(1)
	child.ParentAccountID = &one
	require.NoError(t, r.Register(child))

	// Re-parenting the root under its own descendant would form a cycle.
	root := newAccount(1, "1000", domain.Asset)
	two := int64(2)
	root.ParentAccountID = &two
	assert.ErrorIs(t, r.Register(root), apperrors.ErrValidation)
}

func TestByType(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(newAccount(1, "1000", domain.Asset)))
	require.NoError(t, r.Register(newAccount(2, "1100", domain.Asset)))
	require.NoError(t, r.Register(newAccount(3, "4000", domain.Revenue)))

	assert.Len(t, r.ByType(domain.Asset), 2)
	assert.Len(t, r.ByType(domain.Revenue), 1)
	assert.Empty(t, r.ByType(domain.Equity))
}

func TestDeactivate(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(newAccount(1, "1000", domain.Asset)))

	require.NoError(t, r.Deactivate(1))
	account, _ := r.GetByID(1)
	assert.False(t, account.IsActive)

	assert.ErrorIs(t, r.Deactivate(42), apperrors.ErrNotFound)
}

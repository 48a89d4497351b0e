// Package registry holds the in-memory account catalog. A Registry is an
// explicit, caller-owned object: the host constructs one, populates it,
// and passes it into the services that need account context. There are no
// package-level singletons.
package registry

import (
	"fmt"
	"regexp"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9.-]{2,20}$`)

// Registry is an in-memory catalog of accounts keyed by id, with a
// secondary unique index on code and a per-type index. It is not safe for
// concurrent mutation; the host serializes writes per entity scope.
type Registry struct {
	byID   map[int64]domain.Account
	byCode map[string]int64
	byType map[domain.AccountType][]int64
}

// New creates an empty account registry.
func New() *Registry {
	return &Registry{
		byID:   make(map[int64]domain.Account),
		byCode: make(map[string]int64),
		byType: make(map[domain.AccountType][]int64),
	}
}

// Register adds or replaces an account. It fails when the code is already
// registered to a different id, when the code is malformed, when the
// normal balance contradicts the account type, or when the parent
// reference is invalid.
func (r *Registry) Register(account domain.Account) error {
	if account.AccountID <= 0 {
		return fmt.Errorf("%w: account id must be positive", apperrors.ErrValidation)
	}
	if !codePattern.MatchString(account.Code) {
		return fmt.Errorf("%w: account code %q must be 2-20 alphanumeric, dot, or hyphen characters", apperrors.ErrValidation, account.Code)
	}

	derived, err := domain.NormalBalanceForType(account.AccountType)
	if err != nil {
		return err
	}
	if account.NormalBalance == "" {
		account.NormalBalance = derived
	} else if account.NormalBalance != derived {
		return fmt.Errorf("%w: normal balance %s is inconsistent with account type %s",
			apperrors.ErrValidation, account.NormalBalance, account.AccountType)
	}

	if existingID, ok := r.byCode[account.Code]; ok && existingID != account.AccountID {
		return fmt.Errorf("%w: code %q is registered to account %d", apperrors.ErrDuplicate, account.Code, existingID)
	}

	if err := r.validateParent(account); err != nil {
		return err
	}

	if previous, ok := r.byID[account.AccountID]; ok {
		if previous.Code != account.Code {
			delete(r.byCode, previous.Code)
		}
		if previous.AccountType != account.AccountType {
			r.removeFromTypeIndex(previous)
		}
	}
	if !r.inTypeIndex(account) {
		r.byType[account.AccountType] = append(r.byType[account.AccountType], account.AccountID)
	}
	r.byID[account.AccountID] = account
	r.byCode[account.Code] = account.AccountID
	return nil
}

func (r *Registry) validateParent(account domain.Account) error {
	if account.ParentAccountID == nil {
		return nil
	}
	parentID := *account.ParentAccountID
	if parentID == account.AccountID {
		return fmt.Errorf("%w: account %d cannot be its own parent", apperrors.ErrValidation, account.AccountID)
	}
	parent, ok := r.byID[parentID]
	if !ok {
		return fmt.Errorf("%w: parent account %d is not registered", apperrors.ErrValidation, parentID)
	}
	if !parent.AccountType.CanHaveChildren() {
		return fmt.Errorf("%w: %s account %d cannot have child accounts", apperrors.ErrValidation, parent.AccountType, parentID)
	}
	// Walk to the root so re-parenting cannot introduce a cycle.
	seen := map[int64]bool{account.AccountID: true}
	for cursor := &parentID; cursor != nil; {
		id := *cursor
		if seen[id] {
			return fmt.Errorf("%w: parent chain of account %d contains a cycle", apperrors.ErrValidation, account.AccountID)
		}
		seen[id] = true
		node, ok := r.byID[id]
		if !ok {
			break
		}
		cursor = node.ParentAccountID
	}
	return nil
}

func (r *Registry) inTypeIndex(account domain.Account) bool {
	for _, id := range r.byType[account.AccountType] {
		if id == account.AccountID {
			return true
		}
	}
	return false
}

func (r *Registry) removeFromTypeIndex(account domain.Account) {
	ids := r.byType[account.AccountType]
	for i, id := range ids {
		if id == account.AccountID {
			r.byType[account.AccountType] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// GetByID returns the account with the given id.
func (r *Registry) GetByID(accountID int64) (domain.Account, bool) {
	account, ok := r.byID[accountID]
	return account, ok
}

// GetByCode returns the account with the given code.
func (r *Registry) GetByCode(code string) (domain.Account, bool) {
	id, ok := r.byCode[code]
	if !ok {
		return domain.Account{}, false
	}
	return r.byID[id], true
}

// ByType returns all registered accounts of the given type.
func (r *Registry) ByType(t domain.AccountType) []domain.Account {
	ids := r.byType[t]
	accounts := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, r.byID[id])
	}
	return accounts
}

// All returns every registered account.
func (r *Registry) All() []domain.Account {
	accounts := make([]domain.Account, 0, len(r.byID))
	for _, account := range r.byID {
		accounts = append(accounts, account)
	}
	return accounts
}

// Deactivate marks an account inactive. Entries against inactive accounts
// are rejected at validation time.
func (r *Registry) Deactivate(accountID int64) error {
	account, ok := r.byID[accountID]
	if !ok {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	account.IsActive = false
	r.byID[accountID] = account
	return nil
}

// Len reports the number of registered accounts.
func (r *Registry) Len() int {
	return len(r.byID)
}

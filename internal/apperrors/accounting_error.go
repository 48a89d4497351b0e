package apperrors

import (
	"fmt"
	"strings"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
)

// AccountingError is returned when an operation that requires a valid
// transaction is invoked on data that fails validation. It carries the
// full issue list so callers can surface every problem at once.
type AccountingError struct {
	Op     string
	Issues []domain.ValidationIssue
}

// NewAccountingError wraps a non-empty issue list for the named operation.
func NewAccountingError(op string, issues []domain.ValidationIssue) *AccountingError {
	return &AccountingError{Op: op, Issues: issues}
}

func (e *AccountingError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("%s: %s", e.Op, ErrValidation.Error())
	}
	codes := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		codes[i] = issue.Code
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, ErrValidation.Error(), strings.Join(codes, ", "))
}

// Unwrap lets errors.Is(err, ErrValidation) match an AccountingError.
func (e *AccountingError) Unwrap() error {
	return ErrValidation
}

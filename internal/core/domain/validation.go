package domain

// Validation issue codes. These are part of the API contract; callers
// branch on codes, not messages.
const (
	CodeMissingDescription   = "MISSING_DESCRIPTION"
	CodeMissingDate          = "MISSING_DATE"
	CodeInvalidCurrency      = "INVALID_CURRENCY"
	CodeNoEntries            = "NO_ENTRIES"
	CodeInsufficientEntries  = "INSUFFICIENT_ENTRIES"
	CodeMissingAccountID     = "MISSING_ACCOUNT_ID"
	CodeNegativeDebit        = "NEGATIVE_DEBIT"
	CodeNegativeCredit       = "NEGATIVE_CREDIT"
	CodeBothDebitAndCredit   = "BOTH_DEBIT_AND_CREDIT"
	CodeNoAmount             = "NO_AMOUNT"
	CodeUnbalanced           = "UNBALANCED_TRANSACTION"
	CodeAccountNoTxns        = "ACCOUNT_NO_TRANSACTIONS"
	CodeAccountInactive      = "ACCOUNT_INACTIVE"
	CodeAccountUnknown       = "ACCOUNT_UNKNOWN"
	CodeInvalidExchangeRate  = "INVALID_EXCHANGE_RATE"
	CodeMissingEntryDesc     = "MISSING_ENTRY_DESCRIPTION"
)

// ValidationIssue describes a single recoverable, caller-correctable
// problem with proposed transaction data or expanded journal entries.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

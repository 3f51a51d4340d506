package ledger

import errs "lipa/internal/errors"

// Domain errors surfaced by ledger operations, aliased so callers can match
// against them without importing the errors package. Aliases share identity
// with the originals, so errors.Is works either way.
var (
	ErrUserNotFound        = errs.ErrUserNotFound
	ErrRecipientNotFound   = errs.ErrRecipientNotFound
	ErrProductNotFound     = errs.ErrProductNotFound
	ErrProductInactive     = errs.ErrProductInactive
	ErrDepositNotFound     = errs.ErrDepositNotFound
	ErrTransactionNotFound = errs.ErrTransactionNotFound
	ErrTransferNotFound    = errs.ErrTransferNotFound
	ErrWithdrawalNotFound  = errs.ErrWithdrawalNotFound
	ErrAccountBlocked      = errs.ErrAccountBlocked
	ErrRecipientBlocked    = errs.ErrRecipientBlocked
	ErrKYCRequired         = errs.ErrKYCRequired
	ErrInsufficientBalance = errs.ErrInsufficientBalance
	ErrInsufficientCoins   = errs.ErrInsufficientCoins
	ErrBelowMinimum        = errs.ErrBelowMinimum
	ErrSelfOperation       = errs.ErrSelfOperation
	ErrInvalidAmount       = errs.ErrInvalidAmount
	ErrAlreadyProcessed    = errs.ErrAlreadyProcessed
	ErrInvalidState        = errs.ErrInvalidState
)

// errType labels an error for metrics: the domain code when there is one,
// otherwise a generic bucket.
func errType(err error) string {
	if code := errs.CodeOf(err); code != "" {
		return code
	}
	return "internal"
}

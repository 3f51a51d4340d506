package errors

// Errors raised on the money path. The guard checks report the first rule
// that fails; the transition handlers report replays and dead-end states.
var (
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrRecipientNotFound = &DomainError{
		Code:    "RECIPIENT_NOT_FOUND",
		Message: "recipient not found",
	}
	ErrProductNotFound = &DomainError{
		Code:    "PRODUCT_NOT_FOUND",
		Message: "product not found",
	}
	ErrProductInactive = &DomainError{
		Code:    "PRODUCT_INACTIVE",
		Message: "product is not available",
	}
	ErrDepositNotFound = &DomainError{
		Code:    "DEPOSIT_NOT_FOUND",
		Message: "deposit not found",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrTransferNotFound = &DomainError{
		Code:    "TRANSFER_NOT_FOUND",
		Message: "transfer not found",
	}
	ErrWithdrawalNotFound = &DomainError{
		Code:    "WITHDRAWAL_NOT_FOUND",
		Message: "withdrawal not found",
	}
	ErrAccountBlocked = &DomainError{
		Code:    "ACCOUNT_BLOCKED",
		Message: "account is blocked",
	}
	ErrRecipientBlocked = &DomainError{
		Code:    "RECIPIENT_BLOCKED",
		Message: "recipient account is blocked",
	}
	ErrKYCRequired = &DomainError{
		Code:    "KYC_REQUIRED",
		Message: "identity verification required for this operation",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrInsufficientCoins = &DomainError{
		Code:    "INSUFFICIENT_COINS",
		Message: "insufficient coin balance",
	}
	ErrBelowMinimum = &DomainError{
		Code:    "BELOW_MINIMUM",
		Message: "amount is below the minimum threshold",
	}
	ErrSelfOperation = &DomainError{
		Code:    "SELF_OPERATION",
		Message: "cannot perform this operation on your own account",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrAlreadyProcessed = &DomainError{
		Code:    "ALREADY_PROCESSED",
		Message: "this operation has already been processed",
	}
	ErrInvalidState = &DomainError{
		Code:    "INVALID_STATE",
		Message: "invalid state transition",
	}
	ErrStorage = &DomainError{
		Code:    "STORAGE_ERROR",
		Message: "storage operation failed",
	}
)

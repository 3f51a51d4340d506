package errors

// Errors raised outside the money path: registration, authentication,
// identity review and referral codes.
var (
	ErrEmailTaken = &DomainError{
		Code:    "EMAIL_TAKEN",
		Message: "email is already registered",
	}
	ErrPhoneTaken = &DomainError{
		Code:    "PHONE_TAKEN",
		Message: "phone number is already registered",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid credentials",
	}
	ErrInvalidToken = &DomainError{
		Code:    "INVALID_TOKEN",
		Message: "invalid or expired token",
	}
	ErrReferralCodeNotFound = &DomainError{
		Code:    "REFERRAL_CODE_NOT_FOUND",
		Message: "referral code not found",
	}
	ErrGenerationExhausted = &DomainError{
		Code:    "GENERATION_EXHAUSTED",
		Message: "could not generate a unique code",
	}
	ErrKYCNotFound = &DomainError{
		Code:    "KYC_NOT_FOUND",
		Message: "verification request not found",
	}
	ErrKYCPending = &DomainError{
		Code:    "KYC_PENDING",
		Message: "a verification request is already pending",
	}
)

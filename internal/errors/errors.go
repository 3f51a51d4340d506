package errors

import "errors"

// DomainError is a business error carried across service boundaries. Code is
// a stable machine-readable identifier; Message is safe to show to clients.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// CodeOf extracts the domain error code from err, unwrapping as needed.
// It returns the empty string for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

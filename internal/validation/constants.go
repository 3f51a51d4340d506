package validation

import "github.com/shopspring/decimal"

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength = 100
	MaxNoteLength = 200
)

// MaxMovementAmount caps a single money movement.
var MaxMovementAmount = decimal.RequireFromString("1000000")

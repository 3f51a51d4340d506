package models

import "strings"

// MovementStatus is the lifecycle state shared by every movement record
// (purchase transaction, deposit, transfer, withdrawal, coin exchange).
// A movement is created pending and moves to exactly one terminal state.
type MovementStatus string

const (
	StatusPending   MovementStatus = "pending"
	StatusCompleted MovementStatus = "completed"
	StatusFailed    MovementStatus = "failed"
	StatusCancelled MovementStatus = "cancelled"
)

// Terminal reports whether no further transition is possible from s.
func (s MovementStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is one of the known lifecycle states.
func (s MovementStatus) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// MapCallbackStatus translates the payment gateway's status vocabulary into
// a terminal MovementStatus. Unknown strings map to cancelled; the status
// column only ever carries this vocabulary, and the gateway's raw string is
// kept in the deposit metadata.
func MapCallbackStatus(external string) MovementStatus {
	switch strings.ToLower(strings.TrimSpace(external)) {
	case "success", "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusCancelled
	}
}

package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Round phase errors
	ErrMsgInvalidState = "operation not valid for current round phase"

	// Bet errors
	ErrMsgInvalidStake        = "invalid stake"
	ErrMsgInvalidAutoCashout  = "auto cashout multiplier must be greater than 1.0"
	ErrMsgBetNotFound         = "no active bet for participant"
	ErrMsgAlreadySettled      = "bet already settled"
	ErrMsgAlreadyPlaced       = "participant already has a bet this round"
	ErrMsgCashoutBelowMinimum = "multiplier below minimum cashout"

	// Balance errors
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgParticipantNotFound = "participant not found"

	// History errors
	ErrMsgRoundNotFound = "round not found"

	// Database/System errors
	ErrMsgPersistenceFailure = "persistence failure"
	ErrMsgDatabaseError      = "database error"
	ErrMsgEngineStopped      = "round engine stopped"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrInvalidState = errors.New(ErrMsgInvalidState)

	ErrInvalidStake       = errors.New(ErrMsgInvalidStake)
	ErrInvalidAutoCashout = errors.New(ErrMsgInvalidAutoCashout)
	ErrBetNotFound        = errors.New(ErrMsgBetNotFound)
	ErrAlreadySettled     = errors.New(ErrMsgAlreadySettled)
	ErrAlreadyPlaced      = errors.New(ErrMsgAlreadyPlaced)
	ErrCashoutBelowMin    = errors.New(ErrMsgCashoutBelowMinimum)

	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)
	ErrParticipantNotFound = errors.New(ErrMsgParticipantNotFound)

	ErrRoundNotFound = errors.New(ErrMsgRoundNotFound)

	// ErrPersistenceFailure marks HistorySink/BalanceLedger outages. Callers
	// retry these; request-level errors above are never retried.
	ErrPersistenceFailure = errors.New(ErrMsgPersistenceFailure)
	ErrDatabaseError      = errors.New(ErrMsgDatabaseError)
	ErrEngineStopped      = errors.New(ErrMsgEngineStopped)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// IsClientError reports whether err is a request error that should be
// returned to the caller as-is rather than retried.
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrInvalidStake),
		errors.Is(err, ErrInvalidAutoCashout),
		errors.Is(err, ErrBetNotFound),
		errors.Is(err, ErrAlreadySettled),
		errors.Is(err, ErrAlreadyPlaced),
		errors.Is(err, ErrCashoutBelowMin),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, ErrInvalidInput):
		return true
	}
	return false
}

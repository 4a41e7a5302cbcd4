package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "round.crashed")
const (
	// EventTypeRoundStarted is published on the Waiting -> Running transition
	EventTypeRoundStarted = "round.started"

	// EventTypeRoundCrashed is published once per round when the multiplier reaches the crash point
	EventTypeRoundCrashed = "round.crashed"

	// EventTypeBetPlaced is published after a bet's stake has been debited
	EventTypeBetPlaced = "bet.placed"

	// EventTypeBetSettled is published when a bet settles (cashout, auto-cashout or loss)
	EventTypeBetSettled = "bet.settled"

	// EventTypePersistenceFailed is published when a history append or balance
	// credit exhausted its retries and was dead-lettered
	EventTypePersistenceFailed = "persistence.failed"

	// EventTypePersistenceRecovered is published when a dead-lettered job later succeeds
	EventTypePersistenceRecovered = "persistence.recovered"
)

// Settlement reasons carried on bet.settled events
const (
	SettleReasonCashout     = "cashout"
	SettleReasonAutoCashout = "auto_cashout"
	SettleReasonCrash       = "crash"
)

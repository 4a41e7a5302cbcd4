package round

import "time"

// DrawRetryDelay is how long Waiting is extended when the crash point source fails
const DrawRetryDelay = time.Second

// Idempotency key prefixes for balance mutations
const (
	keyPrefixDebit  = "bet:%s:debit"
	keyPrefixPayout = "bet:%s:payout"
	keyPrefixRefund = "bet:%s:refund"
)

// Refund reasons
const (
	RefundReasonLateBet  = "late_bet"
	RefundReasonShutdown = "shutdown"
)

// Error messages
const (
	ErrMsgInvalidMinBet         = "min bet must be positive"
	ErrMsgInvalidMaxBet         = "max bet must be zero or at least the min bet"
	ErrMsgInvalidWaiting        = "waiting duration must be positive"
	ErrMsgInvalidDisplay        = "crash display duration must not be negative"
	ErrMsgInvalidMinCashout     = "min cashout multiplier must be at least 1.0"
	ErrMsgInvalidMaxMultiplier  = "max multiplier must be greater than 1.0"
	ErrMsgMissingDependency     = "round engine dependency is nil"
	ErrMsgParticipantIDRequired = "participant id is required"
	ErrMsgStakeBelowMin         = "stake below minimum of %d"
	ErrMsgStakeAboveMax         = "stake above maximum of %d"
	ErrMsgAutoCashoutBelowMin   = "auto cashout below minimum of %.2f"
)

// Log messages
const (
	LogMsgRoundStarted       = "Round started"
	LogMsgRoundCrashed       = "Round crashed"
	LogMsgRoundWaiting       = "Round waiting for bets"
	LogMsgDrawFailed         = "Failed to draw crash point, delaying round"
	LogMsgBetPlaced          = "Bet placed"
	LogMsgBetRejected        = "Bet rejected"
	LogMsgBetRefundedLate    = "Round started during debit, refunding stake"
	LogMsgCashedOut          = "Bet cashed out"
	LogMsgAutoCashedOut      = "Bet auto cashed out"
	LogMsgCashoutRejected    = "Cashout rejected"
	LogMsgEventPublishFailed = "Failed to publish round event"
	LogMsgRoundVoided        = "Engine shutting down, refunding open bets"
	LogMsgEngineStopped      = "Round engine stopped"
)

package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Tables and columns
const (
	tableHistory = "game_history"
	tableBalance = "balances"
	tableLedger  = "ledger_entries"

	colID             = "id"
	colRoundID        = "round_id"
	colGameType       = "game_type"
	colResult         = "result"
	colServerSeed     = "server_seed"
	colServerSeedHash = "server_seed_hash"
	colCrashedAt      = "crashed_at"

	colCreatedAtTiebreak = "created_at DESC"

	colParticipantID  = "participant_id"
	colBalance        = "balance"
	colUpdatedAt      = "updated_at"
	colIdempotencyKey = "idempotency_key"
	colDelta          = "delta"
	colOutcome        = "outcome"
)

// Ledger outcomes
const (
	OutcomeApplied             = "applied"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeNotFound            = "not_found"
)

// DefaultRecentLimit caps Recent when the caller passes no limit
const DefaultRecentLimit = 100

// Error Messages
const (
	ErrMsgBuildQuery     = "failed to build query"
	ErrMsgAppendHistory  = "failed to append round history"
	ErrMsgQueryHistory   = "failed to query round history"
	ErrMsgScanHistory    = "failed to scan round history"
	ErrMsgDebit          = "failed to debit balance"
	ErrMsgCredit         = "failed to credit balance"
	ErrMsgGetBalance     = "failed to get balance"
	ErrMsgUnknownOutcome = "unknown ledger outcome"
)

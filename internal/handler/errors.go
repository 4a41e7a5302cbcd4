package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidRoundID    = "Invalid round ID"

	// Crash operation error messages
	ErrMsgPlaceBetFailed   = "Failed to place bet"
	ErrMsgCashOutFailed    = "Failed to cash out"
	ErrMsgGetHistoryFailed = "Failed to retrieve round history"
	ErrMsgVerifyFailed     = "Failed to verify round"
)

// Log messages
const (
	LogMsgDecodeFailed      = "Failed to decode request"
	LogMsgRequestDecoded    = "Request decoded"
	LogMsgMissingQueryParam = "Missing query parameter"
	LogMsgServiceError      = "Service call failed"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response buffer"
	LogMsgBetPlaced         = "Bet placed"
	LogMsgCashedOut         = "Participant cashed out"
)

package settlement

import "time"

// Job kinds
const (
	KindHistory = "history"
	KindCredit  = "credit"
)

// Retry defaults
const (
	DefaultInitialInterval = 100 * time.Millisecond
	DefaultMaxInterval     = 2 * time.Second
	DefaultMaxAttempts     = 6
)

// DeadLetterSchemaVersion is the current version of the dead-letter log format
// Increment this when changing the DeadLetterEntry structure
const DeadLetterSchemaVersion = "1.0"

// DeadLetterFilePermissions is the file permission mode for dead-letter files
const DeadLetterFilePermissions = 0644

// Dead-letter entry schema
const (
	SchemaDir            = "schemas"
	DeadLetterSchemaFile = "deadletter.schema.json"

	// RejectedSuffix names the side file holding lines that fail the schema
	RejectedSuffix = ".rejected"
)

// Log messages
const (
	LogMsgPersistRetrying    = "Persistence attempt failed, retrying"
	LogMsgPersistExhausted   = "Persistence retries exhausted, dead-lettering"
	LogMsgEnqueueFailed      = "Settlement queue unavailable, dead-lettering"
	LogMsgDeadLetterFailed   = "Failed to write dead letter"
	LogMsgDeadLetterCorrupt  = "Dead letter line failed validation, moving to rejected file"
	LogMsgReplayStarted      = "Replaying dead letters"
	LogMsgReplayRecovered    = "Dead letter replayed"
	LogMsgReplayFailed       = "Dead letter replay failed, keeping entry"
	LogMsgEventPublishFailed = "Failed to publish settlement event"
)

// Error messages
const (
	ErrMsgUnknownKind = "unknown dead letter kind"
)

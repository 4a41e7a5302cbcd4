package bootstrap

import "time"

// File system permissions
const (
	DirPermission     = 0755
	LogFilePermission = 0666
)

// Logger file rotation
const (
	// LogFileTimestampFormat is the timestamp format for log filenames
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"

	// LogFileRetentionCount is how many session logs survive a cleanup,
	// counting the one about to be created
	LogFileRetentionCount = 9
)

// SeedKeyFormat is the idempotency key for a configured starting balance
const SeedKeyFormat = "seed:%s"

// ShutdownTimeout bounds the whole graceful shutdown
const ShutdownTimeout = 15 * time.Second

// Log messages
const (
	LogMsgLoggingInitialized     = "Logging initialized"
	LogMsgStartingService        = "Starting crash round service"
	LogMsgConfigurationLoaded    = "Configuration loaded"
	LogMsgFailedDeleteOldLog     = "Failed to delete old log file"
	LogMsgStorageInitialized     = "Storage initialized"
	LogMsgBalancesSeeded         = "Starting balances seeded"
	LogMsgEventSystemInitialized = "Event system initialized"
	LogMsgApplicationStarted     = "Application started"
	LogMsgShuttingDown           = "Shutting down"
	LogMsgServerForcedShutdown   = "Server forced to shutdown"
	LogMsgTickerShutdownFailed   = "Round ticker shutdown failed"
	LogMsgEngineShutdownFailed   = "Round engine shutdown failed"
	LogMsgWorkerPoolStopFailed   = "Worker pool stop failed"
	LogMsgDeadLetterCloseFailed  = "Dead-letter store close failed"
	LogMsgShutdownComplete       = "Shutdown complete"
)

// Error messages
const (
	ErrMsgCreateLogsDir       = "failed to create logs directory"
	ErrMsgOpenLogFile         = "failed to open log file"
	ErrMsgConnectDatabase     = "failed to connect to database"
	ErrMsgMigrateDatabase     = "failed to migrate database"
	ErrMsgCreateTxManager     = "failed to create transaction manager"
	ErrMsgSeedBalance         = "failed to seed balance"
	ErrMsgUnknownBackend      = "unknown storage backend"
	ErrMsgRegisterMetrics     = "failed to register metrics collector"
	ErrMsgCreateDeadLetterDir = "failed to create dead-letter directory"
	ErrMsgBuildCurve          = "failed to build multiplier curve"
	ErrMsgBuildGenerator      = "failed to build crash point generator"
	ErrMsgBuildEngine         = "failed to build round engine"
)

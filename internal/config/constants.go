package config

import "time"

// Storage backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// Server defaults
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultLogDir      = "logs"
	DefaultVersion     = "dev"
	DefaultServiceName = "crash-round"
)

// Database defaults
const (
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
)

// Crash game defaults
const (
	DefaultHouseEdge            = 0.95
	DefaultMaxMultiplier        = 1000.0
	DefaultMinBet               = 100
	DefaultMaxBet               = 0
	DefaultWaitingDurationMs    = 20000
	DefaultDisplayDurationMs    = 5000
	DefaultTickIntervalMs       = 100
	DefaultMinCashoutMultiplier = 1.0
	DefaultGrowthRatePerMs      = 0.00006
)

// Settlement defaults
const (
	DefaultSettlementWorkers        = 4
	DefaultSettlementQueueSize      = 1024
	DefaultRetryInitialInterval     = 100 * time.Millisecond
	DefaultRetryMaxInterval         = 2 * time.Second
	DefaultRetryMaxAttempts         = 6
	DefaultDeadLetterPath           = "logs/settlement_deadletter.jsonl"
	DefaultDeadLetterReplayInterval = 5 * time.Minute
)

// Stream and history defaults
const (
	DefaultStreamClientBuffer = 64
	DefaultHistoryCacheSize   = 256
	DefaultHistoryCacheTTL    = 30 * time.Second
)

// Error messages
const (
	ErrMsgInvalidPort         = "invalid PORT value"
	ErrMsgAPIKeyRequired      = "API_KEY environment variable must be set for security"
	ErrMsgInvalidConfig       = "invalid configuration"
	ErrMsgInvalidSeedBalances = "invalid CRASH_SEED_BALANCES entry"
)

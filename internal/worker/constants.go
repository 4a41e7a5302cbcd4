package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for the worker pool
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgPoolStopTimeout = "Worker pool stop timed out"
)

// Error messages for the worker pool
const (
	ErrMsgQueueFull   = "worker queue full"
	ErrMsgPoolStopped = "worker pool stopped"
)

// ============================================================================
// Log Messages - Round Ticker
// ============================================================================

// Log messages for round ticker operations
const (
	LogMsgRoundTickerStarted = "Round ticker started"
	LogMsgRoundTickerStopped = "Round ticker stopped"
	LogMsgRoundTickerTimeout = "Round ticker shutdown timeout"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)

package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Round metric names
const (
	MetricNameRoundsStarted = "crash_rounds_started_total"
	MetricNameRoundsCrashed = "crash_rounds_crashed_total"
	MetricNameCrashPoint    = "crash_point"
	MetricNameBetsPlaced    = "crash_bets_placed_total"
	MetricNameBetsSettled   = "crash_bets_settled_total"
	MetricNameStakeTotal    = "crash_stake_total"
	MetricNamePayoutTotal   = "crash_payout_total"
	MetricNameTickLag       = "crash_tick_lag_seconds"
)

// Stream metric names
const (
	MetricNameStreamSubscribers = "crash_stream_subscribers"
	MetricNameStreamDropped     = "crash_stream_dropped_total"
)

// Persistence metric names
const (
	MetricNamePersistenceAttempts    = "crash_persistence_attempts_total"
	MetricNamePersistenceDeadLetters = "crash_persistence_dead_letters_total"
	MetricNamePersistenceRecovered   = "crash_persistence_recovered_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Round metric help text
const (
	HelpTextRoundsStarted = "Total number of rounds that entered Running"
	HelpTextRoundsCrashed = "Total number of rounds that crashed"
	HelpTextCrashPoint    = "Distribution of crash points"
	HelpTextBetsPlaced    = "Total number of bets accepted"
	HelpTextBetsSettled   = "Total number of bets settled by reason"
	HelpTextStakeTotal    = "Total stake accepted"
	HelpTextPayoutTotal   = "Total payout credited to winners"
	HelpTextTickLag       = "Delay between the scheduled and actual tick time"
)

// Stream metric help text
const (
	HelpTextStreamSubscribers = "Current number of round stream subscribers"
	HelpTextStreamDropped     = "Total number of subscribers disconnected for falling behind"
)

// Persistence metric help text
const (
	HelpTextPersistenceAttempts    = "Total persistence attempts by job kind and outcome"
	HelpTextPersistenceDeadLetters = "Total persistence jobs that exhausted retries"
	HelpTextPersistenceRecovered   = "Total dead-lettered jobs replayed successfully"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelReason    = "reason"
	LabelKind      = "kind"
	LabelOutcome   = "outcome"
	LabelTransport = "transport"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// CrashPointBuckets covers the instant-crash floor up to the default cap
var CrashPointBuckets = []float64{1, 1.1, 1.5, 2, 3, 5, 10, 25, 50, 100, 1000}

// TickLagBuckets range from sub-millisecond jitter to multi-second stalls
var TickLagBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, 1, 5}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Round Metrics
var (
	RoundsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRoundsStarted,
			Help: HelpTextRoundsStarted,
		},
	)

	RoundsCrashed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRoundsCrashed,
			Help: HelpTextRoundsCrashed,
		},
	)

	CrashPoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameCrashPoint,
			Help:    HelpTextCrashPoint,
			Buckets: CrashPointBuckets,
		},
	)

	BetsPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBetsPlaced,
			Help: HelpTextBetsPlaced,
		},
	)

	BetsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBetsSettled,
			Help: HelpTextBetsSettled,
		},
		[]string{LabelReason},
	)

	StakeTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStakeTotal,
			Help: HelpTextStakeTotal,
		},
	)

	PayoutTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePayoutTotal,
			Help: HelpTextPayoutTotal,
		},
	)

	TickLag = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameTickLag,
			Help:    HelpTextTickLag,
			Buckets: TickLagBuckets,
		},
	)
)

// Stream Metrics
var (
	StreamSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameStreamSubscribers,
			Help: HelpTextStreamSubscribers,
		},
		[]string{LabelTransport},
	)

	StreamDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStreamDropped,
			Help: HelpTextStreamDropped,
		},
	)
)

// Persistence Metrics
var (
	PersistenceAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePersistenceAttempts,
			Help: HelpTextPersistenceAttempts,
		},
		[]string{LabelKind, LabelOutcome},
	)

	PersistenceDeadLetters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePersistenceDeadLetters,
			Help: HelpTextPersistenceDeadLetters,
		},
		[]string{LabelKind},
	)

	PersistenceRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePersistenceRecovered,
			Help: HelpTextPersistenceRecovered,
		},
		[]string{LabelKind},
	)
)

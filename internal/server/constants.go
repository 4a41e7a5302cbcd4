package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgServerStopping   = "Server stopping"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Route paths
const (
	PathHealthz = "/healthz"
	PathReadyz  = "/readyz"
	PathVersion = "/version"
	PathMetrics = "/metrics"
	PathAPI     = "/api/v1"
	PathCrash   = "/crash"
	PathStream  = PathAPI + PathCrash + "/stream"
	PathWS      = PathAPI + PathCrash + "/ws"
)

// PublicPaths bypass API key authentication. Browsers cannot attach custom
// headers to EventSource or WebSocket handshakes, so the read-only streams are
// public.
var PublicPaths = []string{
	PathHealthz,
	PathReadyz,
	PathVersion,
	PathMetrics,
	PathStream,
	PathWS,
}

// quietPaths are not logged per request
var quietPaths = []string{
	PathHealthz,
	PathReadyz,
	PathMetrics,
}

// Limits
const (
	MaxRequestBodyBytes = 1 << 20
	ReadHeaderTimeout   = 5 * time.Second

	// DefaultFailedAuthAlert is the failed-auth count per window that raises an alert
	DefaultFailedAuthAlert = 5
	// DefaultRequestLimit is the request count per window above which an IP is refused
	DefaultRequestLimit = 1000
	// DefaultDetectorWindow is the counting window of the activity detector
	DefaultDetectorWindow = 5 * time.Minute
	// highRateLogEvery throttles the high-rate alert
	highRateLogEvery = 100

	CORSMaxAge = 15 * 60
)

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)

package history

import "time"

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// Cache defaults
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 30 * time.Second
)

// Recent limits
const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

// Log messages
const (
	LogMsgHistoryCacheHit = "Round history served from cache"
	LogMsgHistoryAppended = "Round appended to history"
	LogMsgVerifyCompleted = "Round verification completed"
	LogMsgVerifyMismatch  = "Round verification mismatch"
)

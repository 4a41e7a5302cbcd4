package crash

// ============================================================================
// Crash Point Distribution
// ============================================================================

// DefaultHouseEdge is the fraction of fair odds paid back to players. A player
// targeting any multiplier m wins with probability HouseEdge/m, so the expected
// return of every strategy is HouseEdge.
const DefaultHouseEdge = 0.95

// DefaultMaxMultiplier caps the crash point
const DefaultMaxMultiplier = 1000.0

// MinCrashPoint is the lowest possible crash point (instant crash)
const MinCrashPoint = 1.0

// MultiplierPrecision truncates crash points to two decimals
const MultiplierPrecision = 100.0

// ============================================================================
// Multiplier Curve
// ============================================================================

// DefaultGrowthRatePerMs is k in multiplier(t) = e^(k*t) with t in milliseconds.
// 2x is reached after ~11.6s, 10x after ~38.4s and 100x after ~76.8s.
const DefaultGrowthRatePerMs = 0.00006

// ============================================================================
// Provably Fair Seeds
// ============================================================================

const (
	// ServerSeedBytes is the size of the random per-round server seed
	ServerSeedBytes = 32

	// uniformBits is how many bits of the HMAC digest feed the uniform draw
	uniformBits = 52
)

// Error messages
const (
	ErrMsgInvalidHouseEdge     = "house edge must be between 0 and 1"
	ErrMsgInvalidMaxMultiplier = "max crash multiplier must be greater than 1"
	ErrMsgInvalidGrowthRate    = "growth rate must be positive"
	ErrMsgInvalidServerSeed    = "invalid server seed"
	ErrMsgSeedGeneration       = "failed to generate server seed"
	ErrMsgSequenceExhausted    = "crash point sequence exhausted"
)

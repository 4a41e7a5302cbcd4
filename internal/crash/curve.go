package crash

import (
	"errors"
	"math"
	"time"
)

// Curve is the multiplier clock: multiplier(t) = e^(k*t), t in milliseconds
// since the round started. It is strictly increasing and continuous, and
// multiplier(0) = 1.
type Curve struct {
	ratePerMs float64
}

// NewCurve creates a curve with growth rate k per millisecond
func NewCurve(ratePerMs float64) (Curve, error) {
	if ratePerMs <= 0 || math.IsNaN(ratePerMs) || math.IsInf(ratePerMs, 0) {
		return Curve{}, errors.New(ErrMsgInvalidGrowthRate)
	}
	return Curve{ratePerMs: ratePerMs}, nil
}

// DefaultCurve returns the curve with DefaultGrowthRatePerMs
func DefaultCurve() Curve {
	return Curve{ratePerMs: DefaultGrowthRatePerMs}
}

// At returns the multiplier after elapsed time
func (c Curve) At(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 1.0
	}
	return math.Exp(c.ratePerMs * msOf(elapsed))
}

// TimeToReach returns the earliest elapsed time at which At(t) >= m
func (c Curve) TimeToReach(m float64) time.Duration {
	if m <= 1.0 {
		return 0
	}
	d := time.Duration(math.Ceil(math.Log(m) / c.ratePerMs * float64(time.Millisecond)))
	// Guard against the float round trip landing a nanosecond short.
	for c.At(d) < m {
		d++
	}
	return d
}

func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

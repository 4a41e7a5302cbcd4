package crash

import (
	"math"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Payout returns floor(stake * multiplier). Decimal math keeps thresholds such
// as 1.15 from paying one unit short due to binary float error. Results that
// do not fit in an int64 saturate at math.MaxInt64.
func Payout(stake int64, multiplier float64) int64 {
	if stake <= 0 || multiplier <= 0 || math.IsNaN(multiplier) {
		return 0
	}
	if math.IsInf(multiplier, 1) {
		return math.MaxInt64
	}
	p := decimal.NewFromInt(stake).
		Mul(decimal.NewFromFloat(multiplier)).
		Floor()
	if p.GreaterThan(maxAmount) {
		return math.MaxInt64
	}
	return p.IntPart()
}

// MaxStake is the largest stake whose payout at maxMultiplier fits in an int64
func MaxStake(maxMultiplier float64) int64 {
	if maxMultiplier <= 1 || math.IsNaN(maxMultiplier) {
		return math.MaxInt64
	}
	if math.IsInf(maxMultiplier, 1) {
		return 0
	}
	return maxAmount.Div(decimal.NewFromFloat(maxMultiplier)).Floor().IntPart()
}

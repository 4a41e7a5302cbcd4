package crash

import (
	"errors"
	"math"
)

// Generator maps a uniform draw to a crash point:
// crashPoint = max(1, houseEdge / (1 - e)), capped at maxMultiplier.
type Generator struct {
	houseEdge     float64
	maxMultiplier float64
}

// NewGenerator validates the distribution parameters
func NewGenerator(houseEdge, maxMultiplier float64) (*Generator, error) {
	if houseEdge <= 0 || houseEdge >= 1 || math.IsNaN(houseEdge) {
		return nil, errors.New(ErrMsgInvalidHouseEdge)
	}
	if maxMultiplier <= MinCrashPoint || math.IsNaN(maxMultiplier) {
		return nil, errors.New(ErrMsgInvalidMaxMultiplier)
	}
	return &Generator{houseEdge: houseEdge, maxMultiplier: maxMultiplier}, nil
}

// HouseEdge returns the configured house edge
func (g *Generator) HouseEdge() float64 {
	return g.houseEdge
}

// MaxMultiplier returns the crash point cap
func (g *Generator) MaxMultiplier() float64 {
	return g.maxMultiplier
}

// CrashPoint converts e in [0, 1) into a crash point. The result is truncated
// to two decimals so the advertised value never exceeds the exact one.
func (g *Generator) CrashPoint(e float64) float64 {
	if e < 0 || math.IsNaN(e) {
		e = 0
	}
	if e >= 1 {
		return g.maxMultiplier
	}

	cp := g.houseEdge / (1 - e)
	cp = math.Floor(cp*MultiplierPrecision) / MultiplierPrecision

	if cp < MinCrashPoint {
		return MinCrashPoint
	}
	if cp > g.maxMultiplier {
		return g.maxMultiplier
	}
	return cp
}

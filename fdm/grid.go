// Package fdm implements a finite-difference solver for the constant
// coefficient Black-Scholes-Merton PDE on a log-spaced grid of underlying
// prices.
//
// The pieces are meant to be wired in this order:
//
//	lo, hi := GridLimits(spot, strike, vol, T)
//	grid := NewLogGrid(lo, hi, n)
//	values, _ := Payoff(Call, strike, grid)
//	lower, upper := NeumannFromPayoff(values)
//	op, _ := NewBSMOperator(grid, r, q, vol, lower, upper)
//	scheme, _ := NewImplicitEuler(op, T/float64(steps), steps)
//	_ = scheme.Rollback(values)
//	price, _ := ValueAtCenter(values)
//
// Nothing in this package validates market parameters: a non-positive
// volatility or residual time produces non-finite grid bounds. Callers check
// their inputs before building a grid.
package fdm

import (
	"math"
)

// safetyZoneFactor keeps the strike strictly inside the grid.
const safetyZoneFactor = 1.1

// GridLimits returns the lower and upper underlying levels of the grid. The
// range covers roughly four standard deviations of the terminal log price
// (widened for small volatilities) and always contains the strike with a 10%
// margin, with the spot kept at the geometric center.
func GridLimits(spot, strike, volatility, residualTime float64) (sMin, sMax float64) {
	prefactor := 1.0 + 0.05/volatility
	minMaxFactor := math.Exp(4.0 * prefactor * volatility * math.Sqrt(residualTime))

	sMin = spot / minMaxFactor
	sMax = spot * minMaxFactor

	if sMin > strike/safetyZoneFactor {
		sMin = strike / safetyZoneFactor
		sMax = spot / (sMin / spot)
	}
	if sMax < strike*safetyZoneFactor {
		sMax = strike * safetyZoneFactor
		sMin = spot / (sMax / spot)
	}
	return sMin, sMax
}

// Grid is an immutable, strictly increasing sequence of underlying levels
// with a constant ratio between neighbours.
type Grid struct {
	points     []float64
	logSpacing float64
}

// NewLogGrid builds n log-spaced points from sMin to sMax. The last point
// equals sMax up to rounding.
func NewLogGrid(sMin, sMax float64, n int) Grid {
	points := make([]float64, n)
	logSpacing := (math.Log(sMax) - math.Log(sMin)) / float64(n-1)
	edx := math.Exp(logSpacing)
	points[0] = sMin
	for j := 1; j < n; j++ {
		points[j] = points[j-1] * edx
	}
	return Grid{points: points, logSpacing: logSpacing}
}

// Size returns the number of grid points.
func (g Grid) Size() int { return len(g.points) }

// LogSpacing returns the uniform spacing in log-underlying coordinates.
func (g Grid) LogSpacing() float64 { return g.logSpacing }

// At returns the i-th underlying level.
func (g Grid) At(i int) float64 { return g.points[i] }

// Min returns the lowest underlying level.
func (g Grid) Min() float64 { return g.points[0] }

// Max returns the highest underlying level.
func (g Grid) Max() float64 { return g.points[len(g.points)-1] }

// Points returns a copy of the grid levels.
func (g Grid) Points() []float64 {
	out := make([]float64, len(g.points))
	copy(out, g.points)
	return out
}

package market

import (
	"fmt"
	"math"
	"sort"
)

// BlackVolCurve returns Black variances and volatilities by time and strike.
type BlackVolCurve interface {
	BlackVariance(t, strike float64) float64
	BlackVol(t, strike float64) float64
}

// BlackConstantVol is a flat volatility for every time and strike.
type BlackConstantVol struct {
	Vol float64
}

func (c BlackConstantVol) BlackVariance(t, _ float64) float64 { return c.Vol * c.Vol * t }

func (c BlackConstantVol) BlackVol(_, _ float64) float64 { return c.Vol }

// Extrapolation selects how a surface is read outside its strike range.
type Extrapolation int

const (
	// ConstantExtrapolation holds the edge strike's variance.
	ConstantExtrapolation Extrapolation = iota
	// LinearExtrapolation extends the edge strike segment.
	LinearExtrapolation
)

// BlackVarianceSurface interpolates total Black variance bilinearly in time
// and strike. A zero-variance row is added at t=0, and beyond the last
// maturity the variance grows linearly in time, which keeps the last
// volatility constant.
type BlackVarianceSurface struct {
	times     []float64
	strikes   []float64
	variances [][]float64 // [strike][time]
	lowerEx   Extrapolation
	upperEx   Extrapolation
}

// NewBlackVarianceSurface builds a surface from maturities in years,
// strikes and a volatility matrix indexed as vols[strike][maturity].
// Maturities and strikes must be strictly increasing and total variance must
// not decrease with time.
func NewBlackVarianceSurface(times, strikes []float64, vols [][]float64, lowerEx, upperEx Extrapolation) (*BlackVarianceSurface, error) {
	if len(times) == 0 || len(strikes) == 0 {
		return nil, fmt.Errorf("%w: need at least one maturity and one strike", ErrInvalidSurface)
	}
	if len(vols) != len(strikes) {
		return nil, fmt.Errorf("%w: %d strikes but %d volatility rows", ErrInvalidSurface, len(strikes), len(vols))
	}
	if times[0] <= 0 {
		return nil, fmt.Errorf("%w: first maturity must be positive, got %g", ErrInvalidSurface, times[0])
	}
	for i := 1; i < len(strikes); i++ {
		if strikes[i] <= strikes[i-1] {
			return nil, fmt.Errorf("%w: strikes must be sorted and unique", ErrInvalidSurface)
		}
	}

	s := &BlackVarianceSurface{
		times:     make([]float64, len(times)+1),
		strikes:   append([]float64(nil), strikes...),
		variances: make([][]float64, len(strikes)),
		lowerEx:   lowerEx,
		upperEx:   upperEx,
	}
	copy(s.times[1:], times)
	for j := 2; j < len(s.times); j++ {
		if s.times[j] <= s.times[j-1] {
			return nil, fmt.Errorf("%w: maturities must be sorted and unique", ErrInvalidSurface)
		}
	}

	for i, row := range vols {
		if len(row) != len(times) {
			return nil, fmt.Errorf("%w: strike %g has %d volatilities for %d maturities", ErrInvalidSurface, strikes[i], len(row), len(times))
		}
		s.variances[i] = make([]float64, len(s.times))
		for j, vol := range row {
			v := s.times[j+1] * vol * vol
			if v < s.variances[i][j] {
				return nil, fmt.Errorf("%w: variance decreases at strike %g, maturity %g", ErrInvalidSurface, strikes[i], s.times[j+1])
			}
			s.variances[i][j+1] = v
		}
	}
	return s, nil
}

// MaxTime returns the last maturity of the surface.
func (s *BlackVarianceSurface) MaxTime() float64 { return s.times[len(s.times)-1] }

func (s *BlackVarianceSurface) BlackVariance(t, strike float64) float64 {
	if t <= 0 {
		return 0
	}
	if strike < s.strikes[0] && s.lowerEx == ConstantExtrapolation {
		strike = s.strikes[0]
	}
	if last := s.strikes[len(s.strikes)-1]; strike > last && s.upperEx == ConstantExtrapolation {
		strike = last
	}

	if maxT := s.MaxTime(); t > maxT {
		return s.interpolate(maxT, strike) * t / maxT
	}
	return s.interpolate(t, strike)
}

func (s *BlackVarianceSurface) BlackVol(t, strike float64) float64 {
	if t <= 0 {
		// the short end of the first maturity segment
		t = 1e-5
	}
	return math.Sqrt(s.BlackVariance(t, strike) / t)
}

func (s *BlackVarianceSurface) interpolate(t, strike float64) float64 {
	ti, xt := bracket(s.times, t)
	if len(s.strikes) == 1 {
		row := s.variances[0]
		return (1-xt)*row[ti] + xt*row[ti+1]
	}
	si, xs := bracket(s.strikes, strike)

	v00 := s.variances[si][ti]
	v01 := s.variances[si][ti+1]
	v10 := s.variances[si+1][ti]
	v11 := s.variances[si+1][ti+1]
	return (1-xs)*(1-xt)*v00 + (1-xs)*xt*v01 + xs*(1-xt)*v10 + xs*xt*v11
}

// bracket returns the index of the segment of xs used for x and the
// position of x within it. Outside the range the edge segment is used, so
// the weight falls outside [0,1].
func bracket(xs []float64, x float64) (int, float64) {
	i := sort.SearchFloat64s(xs, x) - 1
	i = clamp(i, 0, len(xs)-2)
	return i, (x - xs[i]) / (xs[i+1] - xs[i])
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Package pricer values vanilla options by solving the Black-Scholes-Merton
// PDE with the fdm package and reading the Greeks off the final grid.
package pricer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bcdannyboy/fdquant/fdm"
)

var (
	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = errors.New("pricer: invalid request")
	// ErrNoConvergence is returned when an inversion cannot reach its target.
	ErrNoConvergence = errors.New("pricer: no convergence")
)

// DefaultGridPoints is used when a request leaves GridPoints at zero. An odd
// count puts the spot exactly on a grid node.
const DefaultGridPoints = 101

// Exercise is the exercise style of an option.
type Exercise int

const (
	European Exercise = iota
	American
)

func (e Exercise) String() string {
	switch e {
	case European:
		return "european"
	case American:
		return "american"
	}
	return fmt.Sprintf("Exercise(%d)", int(e))
}

// ParseExercise reads "european" or "american"; the empty string is European.
func ParseExercise(s string) (Exercise, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "european", "e":
		return European, nil
	case "american", "a":
		return American, nil
	}
	return 0, fmt.Errorf("%w: unknown exercise %q", ErrInvalidRequest, s)
}

// Scheme selects the time-stepping rule.
type Scheme int

const (
	Implicit Scheme = iota
	CrankNicolson
)

func (s Scheme) String() string {
	switch s {
	case Implicit:
		return "implicit"
	case CrankNicolson:
		return "crank-nicolson"
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// ParseScheme reads "implicit" or "crank-nicolson"; the empty string is
// Implicit.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "implicit", "implicit-euler", "euler":
		return Implicit, nil
	case "crank-nicolson", "cn":
		return CrankNicolson, nil
	}
	return 0, fmt.Errorf("%w: unknown scheme %q", ErrInvalidRequest, s)
}

// Request describes one option to price. Rates and yields are continuously
// compounded, ResidualTime is in years and Volatility is annualized.
type Request struct {
	Type          fdm.OptionType
	Exercise      Exercise
	Spot          float64
	Strike        float64
	DividendYield float64
	RiskFreeRate  float64
	ResidualTime  float64
	Volatility    float64
	// GridPoints defaults to DefaultGridPoints.
	GridPoints int
	// TimeSteps defaults to the number of grid points.
	TimeSteps int
	Scheme    Scheme
}

// Validate reports the first input that would make the PDE solve degenerate.
func (r Request) Validate() error {
	switch r.Type {
	case fdm.Call, fdm.Put, fdm.Straddle:
	default:
		return fmt.Errorf("%w: unsupported option type %d", ErrInvalidRequest, int(r.Type))
	}
	if r.Exercise != European && r.Exercise != American {
		return fmt.Errorf("%w: unsupported exercise %d", ErrInvalidRequest, int(r.Exercise))
	}
	if r.Scheme != Implicit && r.Scheme != CrankNicolson {
		return fmt.Errorf("%w: unsupported scheme %d", ErrInvalidRequest, int(r.Scheme))
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"spot", r.Spot},
		{"strike", r.Strike},
		{"volatility", r.Volatility},
		{"residual time", r.ResidualTime},
	} {
		if !(f.value > 0) || math.IsInf(f.value, 1) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidRequest, f.name, f.value)
		}
	}
	if math.IsNaN(r.RiskFreeRate) || math.IsInf(r.RiskFreeRate, 0) {
		return fmt.Errorf("%w: risk-free rate must be finite, got %g", ErrInvalidRequest, r.RiskFreeRate)
	}
	if math.IsNaN(r.DividendYield) || math.IsInf(r.DividendYield, 0) {
		return fmt.Errorf("%w: dividend yield must be finite, got %g", ErrInvalidRequest, r.DividendYield)
	}

	// gamma needs four points around the center
	if r.GridPoints != 0 && r.GridPoints < 4 {
		return fmt.Errorf("%w: at least 4 grid points required, got %d", ErrInvalidRequest, r.GridPoints)
	}
	if r.TimeSteps < 0 {
		return fmt.Errorf("%w: time steps must not be negative, got %d", ErrInvalidRequest, r.TimeSteps)
	}
	return nil
}

func (r Request) gridPoints() int {
	if r.GridPoints == 0 {
		return DefaultGridPoints
	}
	return r.GridPoints
}

func (r Request) timeSteps() int {
	if r.TimeSteps == 0 {
		return r.gridPoints()
	}
	return r.TimeSteps
}

package pricer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

const (
	minImpliedVol = 1e-4
	maxImpliedVol = 5.0
	// impliedPriceTolerance is the largest accepted price miss, relative to
	// the larger of the target and one unit of currency.
	impliedPriceTolerance = 1e-6
)

// ImpliedVolatility returns the volatility at which the PDE price of req
// matches targetPrice. req.Volatility is used as the starting point when it
// is positive. The search runs in log-volatility so it never leaves the
// positive half line.
func ImpliedVolatility(req Request, targetPrice float64, opts ...Option) (float64, error) {
	if !(targetPrice > 0) || math.IsInf(targetPrice, 1) {
		return 0, fmt.Errorf("%w: target price must be positive and finite, got %g", ErrInvalidRequest, targetPrice)
	}
	guess := req.Volatility
	if !(guess > 0) {
		guess = 0.2
		req.Volatility = guess
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	volOf := func(x float64) float64 {
		return math.Min(math.Max(math.Exp(x), minImpliedVol), maxImpliedVol)
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			trial := req
			trial.Volatility = volOf(x[0])
			g, err := Solve(trial, opts...)
			if err != nil {
				return math.MaxFloat64
			}
			diff := g.Value - targetPrice
			return diff * diff
		},
	}

	result, err := optimize.Minimize(problem, []float64{math.Log(guess)}, &optimize.Settings{
		MajorIterations: 500,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-16,
			Iterations: 20,
		},
	}, &optimize.NelderMead{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	miss := math.Sqrt(result.F)
	if miss > impliedPriceTolerance*math.Max(targetPrice, 1) {
		return 0, fmt.Errorf("%w: closest price misses target %g by %g", ErrNoConvergence, targetPrice, miss)
	}
	return volOf(result.X[0]), nil
}

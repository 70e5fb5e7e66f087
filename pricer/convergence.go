package pricer

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/fdquant/fdm"
	"github.com/bcdannyboy/fdquant/models"
	"gonum.org/v1/gonum/floats"
)

// ConvergencePoint is the PDE value at one grid size next to the closed-form
// reference.
type ConvergencePoint struct {
	GridPoints int
	Value      float64
	Error      float64
}

// ConvergenceStudy holds PDE values of one request across grid sizes.
type ConvergenceStudy struct {
	Reference float64
	Points    []ConvergencePoint
}

// MaxAbsError returns the largest absolute pricing error in the study.
func (c ConvergenceStudy) MaxAbsError() float64 {
	errs := make([]float64, len(c.Points))
	for i, p := range c.Points {
		errs[i] = p.Error
	}
	return floats.Norm(errs, math.Inf(1))
}

// Convergence prices a European request at each grid size and compares it
// with the closed-form Black-Scholes-Merton value. Time steps follow the
// grid size unless the request fixes them.
func Convergence(req Request, gridSizes []int, opts ...Option) (ConvergenceStudy, error) {
	if req.Exercise != European {
		return ConvergenceStudy{}, fmt.Errorf("%w: convergence needs a closed form, %s exercise has none", ErrInvalidRequest, req.Exercise)
	}
	if err := req.Validate(); err != nil {
		return ConvergenceStudy{}, err
	}
	ref, err := ClosedForm(req)
	if err != nil {
		return ConvergenceStudy{}, err
	}

	study := ConvergenceStudy{Reference: ref, Points: make([]ConvergencePoint, 0, len(gridSizes))}
	for _, n := range gridSizes {
		trial := req
		trial.GridPoints = n
		g, err := Solve(trial, opts...)
		if err != nil {
			return ConvergenceStudy{}, fmt.Errorf("grid %d: %w", n, err)
		}
		study.Points = append(study.Points, ConvergencePoint{
			GridPoints: n,
			Value:      g.Value,
			Error:      g.Value - ref,
		})
	}
	return study, nil
}

// ClosedForm returns the Black-Scholes-Merton value of a European request.
func ClosedForm(req Request) (float64, error) {
	S, K, T := req.Spot, req.Strike, req.ResidualTime
	r, q, sigma := req.RiskFreeRate, req.DividendYield, req.Volatility
	switch req.Type {
	case fdm.Call:
		return models.BlackScholesMerton(S, K, T, r, q, sigma, true).Price, nil
	case fdm.Put:
		return models.BlackScholesMerton(S, K, T, r, q, sigma, false).Price, nil
	case fdm.Straddle:
		return models.Straddle(S, K, T, r, q, sigma).Price, nil
	}
	return 0, fmt.Errorf("%w: unsupported option type %d", ErrInvalidRequest, int(req.Type))
}

package pricer

import (
	"fmt"
	"log/slog"

	"github.com/bcdannyboy/fdquant/fdm"
)

// Greeks is the result of one PDE solve. Vega and Rho are not computed and
// are always zero.
type Greeks struct {
	Value float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

type settings struct {
	logger *slog.Logger
}

// Option configures Solve and the helpers built on it.
type Option func(*settings)

// WithLogger sets the logger used for per-solve debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Solve validates req, rolls the payoff back from expiry to today and
// returns value, delta, gamma and theta sampled at the center of the grid.
// Theta is the change in value over one further time step.
func Solve(req Request, opts ...Option) (Greeks, error) {
	s := newSettings(opts)
	if err := req.Validate(); err != nil {
		return Greeks{}, err
	}

	n := req.gridPoints()
	steps := req.timeSteps()
	dt := req.ResidualTime / float64(steps)

	sMin, sMax := fdm.GridLimits(req.Spot, req.Strike, req.Volatility, req.ResidualTime)
	grid := fdm.NewLogGrid(sMin, sMax, n)

	values, err := fdm.Payoff(req.Type, req.Strike, grid)
	if err != nil {
		return Greeks{}, err
	}
	lower, upper := fdm.NeumannFromPayoff(values)
	op, err := fdm.NewBSMOperator(grid, req.RiskFreeRate, req.DividendYield, req.Volatility, lower, upper)
	if err != nil {
		return Greeks{}, err
	}

	var schemeOpts []fdm.SchemeOption
	if req.Exercise == American {
		schemeOpts = append(schemeOpts, fdm.WithStepCondition(fdm.NewAmericanCondition(values)))
	}
	scheme, err := newScheme(req.Scheme, op, dt, steps, schemeOpts...)
	if err != nil {
		return Greeks{}, err
	}

	s.logger.Debug("solving option",
		"type", req.Type.String(),
		"exercise", req.Exercise.String(),
		"scheme", req.Scheme.String(),
		"s_min", sMin,
		"s_max", sMax,
		"log_spacing", grid.LogSpacing(),
		"grid_points", n,
		"time_steps", steps,
		"dt", dt,
	)

	if err := scheme.Rollback(values); err != nil {
		return Greeks{}, fmt.Errorf("rollback %s: %w", req.Type, err)
	}

	var g Greeks
	points := grid.Points()
	if g.Value, err = fdm.ValueAtCenter(values); err != nil {
		return Greeks{}, err
	}
	if g.Delta, err = fdm.FirstDerivativeAtCenter(values, points); err != nil {
		return Greeks{}, err
	}
	if g.Gamma, err = fdm.SecondDerivativeAtCenter(values, points); err != nil {
		return Greeks{}, err
	}

	extra, err := newScheme(req.Scheme, op, dt, 1, schemeOpts...)
	if err != nil {
		return Greeks{}, err
	}
	if err := extra.Step(values); err != nil {
		return Greeks{}, fmt.Errorf("theta step %s: %w", req.Type, err)
	}
	earlier, err := fdm.ValueAtCenter(values)
	if err != nil {
		return Greeks{}, err
	}
	g.Theta = (g.Value - earlier) / dt

	return g, nil
}

func newScheme(kind Scheme, op *fdm.BSMOperator, dt float64, steps int, opts ...fdm.SchemeOption) (*fdm.ThetaScheme, error) {
	if kind == CrankNicolson {
		return fdm.NewCrankNicolson(op, dt, steps, opts...)
	}
	return fdm.NewImplicitEuler(op, dt, steps, opts...)
}

package fdm

import (
	"gonum.org/v1/gonum/mat"
)

// State tracks how far a scheme has advanced through its steps.
type State int

const (
	NotStarted State = iota
	Stepping
	Done
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Stepping:
		return "stepping"
	case Done:
		return "done"
	}
	return "unknown"
}

// StepCondition is applied to the solution after every completed step.
type StepCondition interface {
	Apply(values []float64)
}

// AmericanCondition floors the solution at the exercise value on each node.
type AmericanCondition struct {
	intrinsic []float64
}

// NewAmericanCondition copies the exercise values sampled on the grid.
func NewAmericanCondition(intrinsic []float64) *AmericanCondition {
	c := &AmericanCondition{intrinsic: make([]float64, len(intrinsic))}
	copy(c.intrinsic, intrinsic)
	return c
}

func (c *AmericanCondition) Apply(values []float64) {
	for i, v := range c.intrinsic {
		if values[i] < v {
			values[i] = v
		}
	}
}

// SchemeOption configures a ThetaScheme.
type SchemeOption func(*ThetaScheme)

// WithStepCondition installs a condition applied after every step.
func WithStepCondition(c StepCondition) SchemeOption {
	return func(s *ThetaScheme) { s.condition = c }
}

// ThetaScheme advances option values backward in time by a fixed number of
// steps of size dt, solving on every step
//
//	(I + θ·dt·L)·u' = (I - (1-θ)·dt·L)·u
//
// on interior rows, with the operator's boundary rows imposed on both sides.
// θ=1 is the fully implicit (backward Euler) rule, θ=½ is Crank-Nicolson.
// The left-hand matrix is assembled once; the operator is never rebuilt.
type ThetaScheme struct {
	op        *BSMOperator
	theta     float64
	dt        float64
	steps     int
	taken     int
	system    *mat.Tridiag
	condition StepCondition
	rhs       []float64
	work      []float64
}

// NewThetaScheme builds a scheme that will take exactly steps steps of size dt.
func NewThetaScheme(op *BSMOperator, theta, dt float64, steps int, opts ...SchemeOption) (*ThetaScheme, error) {
	if op == nil {
		return nil, opErrorf(opStep, ErrPrecondition, "nil operator")
	}
	if theta < 0 || theta > 1 {
		return nil, opErrorf(opStep, ErrInvalidArgument, "theta must be in [0,1], got %g", theta)
	}
	if !(dt > 0) {
		return nil, opErrorf(opStep, ErrPrecondition, "time step must be positive, got %g", dt)
	}
	if steps < 1 {
		return nil, opErrorf(opStep, ErrPrecondition, "at least one step required, got %d", steps)
	}

	s := &ThetaScheme{
		op:     op,
		theta:  theta,
		dt:     dt,
		steps:  steps,
		system: op.shifted(1, theta*dt),
		rhs:    make([]float64, op.n),
		work:   make([]float64, op.n),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewImplicitEuler builds the fully implicit scheme, unconditionally stable
// for any ratio of dt to grid spacing.
func NewImplicitEuler(op *BSMOperator, dt float64, steps int, opts ...SchemeOption) (*ThetaScheme, error) {
	return NewThetaScheme(op, 1, dt, steps, opts...)
}

// NewCrankNicolson builds the second-order θ=½ scheme.
func NewCrankNicolson(op *BSMOperator, dt float64, steps int, opts ...SchemeOption) (*ThetaScheme, error) {
	return NewThetaScheme(op, 0.5, dt, steps, opts...)
}

// Dt returns the time step size.
func (s *ThetaScheme) Dt() float64 { return s.dt }

// Theta returns the implicitness weight.
func (s *ThetaScheme) Theta() float64 { return s.theta }

// Steps returns the total number of steps the scheme will take.
func (s *ThetaScheme) Steps() int { return s.steps }

// Taken returns the number of completed steps.
func (s *ThetaScheme) Taken() int { return s.taken }

// State reports progress through the configured steps.
func (s *ThetaScheme) State() State {
	switch {
	case s.taken == 0:
		return NotStarted
	case s.taken < s.steps:
		return Stepping
	}
	return Done
}

// Step advances values in place by one time step. Stepping a scheme that
// has already completed all of its steps is a programming error.
func (s *ThetaScheme) Step(values []float64) error {
	if s.taken >= s.steps {
		return opErrorf(opStep, ErrPrecondition, "scheme already completed its %d steps", s.steps)
	}
	n := s.op.n
	if len(values) != n {
		return opErrorf(opStep, ErrPrecondition, "operator size %d, got %d values", n, len(values))
	}

	copy(s.rhs, values)
	if explicit := (1 - s.theta) * s.dt; explicit != 0 {
		if err := s.op.ApplyTo(s.work, values); err != nil {
			return err
		}
		for i := 1; i < n-1; i++ {
			s.rhs[i] -= explicit * s.work[i]
		}
	}
	s.op.imposeBoundary(s.rhs)

	err := s.system.SolveVecTo(mat.NewVecDense(n, values), false, mat.NewVecDense(n, s.rhs))
	if err != nil {
		return opErrorf(opStep, ErrNumerical, "step %d of %d: %v", s.taken+1, s.steps, err)
	}
	if !finite(values) {
		return opErrorf(opStep, ErrNumerical, "step %d of %d produced non-finite values", s.taken+1, s.steps)
	}
	if s.condition != nil {
		s.condition.Apply(values)
	}
	s.taken++
	return nil
}

// Rollback takes all remaining steps.
func (s *ThetaScheme) Rollback(values []float64) error {
	for s.taken < s.steps {
		if err := s.Step(values); err != nil {
			return err
		}
	}
	return nil
}

// ResidualTime returns the total time covered by all steps.
func (s *ThetaScheme) ResidualTime() float64 {
	return s.dt * float64(s.steps)
}

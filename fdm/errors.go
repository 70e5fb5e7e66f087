package fdm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for an unsupported option type or an
	// unknown boundary side/kind.
	ErrInvalidArgument = errors.New("fdm: invalid argument")

	// ErrPrecondition is returned when a helper is called with arrays that are
	// too short or of mismatched length, or when a scheme is stepped after it
	// has completed all of its steps.
	ErrPrecondition = errors.New("fdm: precondition violated")

	// ErrNumerical is returned when the linear solve fails on a singular
	// operator or a step produces non-finite values.
	ErrNumerical = errors.New("fdm: numerical failure")
)

const (
	opPayoff           = "Payoff"
	opFirstDerivative  = "FirstDerivativeAtCenter"
	opSecondDerivative = "SecondDerivativeAtCenter"
	opValueAtCenter    = "ValueAtCenter"
	opBoundary         = "BoundaryCondition"
	opOperator         = "NewBSMOperator"
	opStep             = "Step"
	opApply            = "ApplyTo"
)

func opErrorf(op string, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", op, sentinel, fmt.Sprintf(format, args...))
}

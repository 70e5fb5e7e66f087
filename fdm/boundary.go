package fdm

// Side is the grid edge a boundary condition applies to.
type Side int

const (
	Lower Side = iota + 1
	Upper
)

// BoundaryKind selects how the edge row of the operator is built.
type BoundaryKind int

const (
	// Neumann fixes the first difference across the edge:
	// v[1]-v[0] on the lower side, v[n-1]-v[n-2] on the upper side.
	Neumann BoundaryKind = iota + 1
	// Dirichlet fixes the edge value itself.
	Dirichlet
)

func (k BoundaryKind) String() string {
	switch k {
	case Neumann:
		return "neumann"
	case Dirichlet:
		return "dirichlet"
	}
	return "unknown"
}

// BoundaryCondition is set once when the operator is built and never changes
// afterwards.
type BoundaryCondition struct {
	Side  Side
	Kind  BoundaryKind
	Value float64
}

func (bc BoundaryCondition) validate(side Side) error {
	if bc.Side != side {
		return opErrorf(opBoundary, ErrInvalidArgument, "condition for side %d passed as side %d", bc.Side, side)
	}
	if bc.Kind != Neumann && bc.Kind != Dirichlet {
		return opErrorf(opBoundary, ErrInvalidArgument, "unknown boundary kind %d", int(bc.Kind))
	}
	return nil
}

// NeumannFromPayoff derives both edge conditions from the slope of the
// initial payoff, which extrapolates the payoff linearly beyond the grid.
func NeumannFromPayoff(values []float64) (lower, upper BoundaryCondition) {
	n := len(values)
	lower = BoundaryCondition{Side: Lower, Kind: Neumann, Value: values[1] - values[0]}
	upper = BoundaryCondition{Side: Upper, Kind: Neumann, Value: values[n-1] - values[n-2]}
	return lower, upper
}

package fdm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BSMOperator is the discretized Black-Scholes-Merton spatial operator L in
// log-underlying coordinates x = ln S, acting on option values as a function
// of time to maturity τ:
//
//	∂V/∂τ = -L·V,   L·V = -½σ²·V_xx - ν·V_x + r·V,   ν = r - q - ½σ²
//
// With a uniform log spacing the interior rows share the same three
// coefficients. The first and last rows hold the boundary conditions. An
// operator is immutable: changing a parameter or a boundary condition means
// building a new one.
type BSMOperator struct {
	n            int
	dx           float64
	riskFreeRate float64
	dividend     float64
	volatility   float64
	pd, pm, pu   float64
	lower, upper BoundaryCondition
	band         *mat.Tridiag
}

// NewBSMOperator builds the operator for grid with constant rate, dividend
// yield (the underlying growth differential) and volatility.
func NewBSMOperator(grid Grid, riskFreeRate, dividendYield, volatility float64, lower, upper BoundaryCondition) (*BSMOperator, error) {
	n := grid.Size()
	if n < 3 {
		return nil, opErrorf(opOperator, ErrPrecondition, "grid must have at least 3 points, got %d", n)
	}
	if err := lower.validate(Lower); err != nil {
		return nil, err
	}
	if err := upper.validate(Upper); err != nil {
		return nil, err
	}

	dx := grid.LogSpacing()
	sigma2 := volatility * volatility
	nu := riskFreeRate - dividendYield - sigma2/2

	op := &BSMOperator{
		n:            n,
		dx:           dx,
		riskFreeRate: riskFreeRate,
		dividend:     dividendYield,
		volatility:   volatility,
		pd:           -(sigma2/dx - nu) / (2 * dx),
		pm:           sigma2/(dx*dx) + riskFreeRate,
		pu:           -(sigma2/dx + nu) / (2 * dx),
		lower:        lower,
		upper:        upper,
	}
	op.band = op.shifted(0, 1)
	return op, nil
}

// Size returns the dimension of the operator.
func (op *BSMOperator) Size() int { return op.n }

// Coefficients returns the sub-diagonal, diagonal and super-diagonal values
// shared by every interior row.
func (op *BSMOperator) Coefficients() (pd, pm, pu float64) { return op.pd, op.pm, op.pu }

// LowerBC returns the condition applied to the first row.
func (op *BSMOperator) LowerBC() BoundaryCondition { return op.lower }

// UpperBC returns the condition applied to the last row.
func (op *BSMOperator) UpperBC() BoundaryCondition { return op.upper }

// ApplyTo stores L·src into dst. Boundary rows evaluate the boundary
// constraint itself, so for a Neumann lower edge dst[0] = src[1]-src[0].
func (op *BSMOperator) ApplyTo(dst, src []float64) error {
	if len(src) != op.n || len(dst) != op.n {
		return opErrorf(opApply, ErrPrecondition, "operator size %d, got src %d and dst %d", op.n, len(src), len(dst))
	}
	out := mat.NewVecDense(op.n, dst)
	op.band.MulVecTo(out, false, mat.NewVecDense(op.n, src))
	return nil
}

// shifted returns the tridiagonal matrix a·I + c·L with the boundary rows
// replaced by the boundary constraints.
func (op *BSMOperator) shifted(a, c float64) *mat.Tridiag {
	n := op.n
	dl := make([]float64, n-1)
	d := make([]float64, n)
	du := make([]float64, n-1)
	for i := 1; i < n-1; i++ {
		dl[i-1] = c * op.pd
		d[i] = a + c*op.pm
		du[i] = c * op.pu
	}

	switch op.lower.Kind {
	case Neumann:
		d[0], du[0] = -1, 1
	case Dirichlet:
		d[0], du[0] = 1, 0
	}
	switch op.upper.Kind {
	case Neumann:
		dl[n-2], d[n-1] = -1, 1
	case Dirichlet:
		dl[n-2], d[n-1] = 0, 1
	}
	return mat.NewTridiag(n, dl, d, du)
}

// imposeBoundary overwrites the edge entries of a right-hand side with the
// boundary values.
func (op *BSMOperator) imposeBoundary(rhs []float64) {
	rhs[0] = op.lower.Value
	rhs[op.n-1] = op.upper.Value
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

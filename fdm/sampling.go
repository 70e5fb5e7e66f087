package fdm

// ValueAtCenter returns the value at the middle of the grid: the center
// point for an odd number of points, the average of the two central points
// otherwise.
func ValueAtCenter(a []float64) (float64, error) {
	if len(a) == 0 {
		return 0, opErrorf(opValueAtCenter, ErrPrecondition, "empty array")
	}
	mid := len(a) / 2
	if len(a)%2 == 1 {
		return a[mid], nil
	}
	return (a[mid] + a[mid-1]) / 2, nil
}

// FirstDerivativeAtCenter returns da/dg at the middle of the grid: a central
// difference across the center point for odd sizes, the difference between
// the two central points for even sizes.
func FirstDerivativeAtCenter(a, g []float64) (float64, error) {
	if len(a) != len(g) {
		return 0, opErrorf(opFirstDerivative, ErrPrecondition, "values and grid must have the same size, got %d and %d", len(a), len(g))
	}
	if len(a) < 3 {
		return 0, opErrorf(opFirstDerivative, ErrPrecondition, "at least 3 points required, got %d", len(a))
	}
	mid := len(a) / 2
	if len(a)%2 == 1 {
		return (a[mid+1] - a[mid-1]) / (g[mid+1] - g[mid-1]), nil
	}
	return (a[mid] - a[mid-1]) / (g[mid] - g[mid-1]), nil
}

// SecondDerivativeAtCenter returns d²a/dg² at the middle of the grid.
//
// For odd sizes the one-sided slopes on each side of the center point are
// differenced and divided by half the span of the three points. For even
// sizes the central slopes over [mid-1, mid+1] and [mid-2, mid] are
// differenced and divided by the spacing of the two central points.
func SecondDerivativeAtCenter(a, g []float64) (float64, error) {
	if len(a) != len(g) {
		return 0, opErrorf(opSecondDerivative, ErrPrecondition, "values and grid must have the same size, got %d and %d", len(a), len(g))
	}
	if len(a) < 4 {
		return 0, opErrorf(opSecondDerivative, ErrPrecondition, "at least 4 points required, got %d", len(a))
	}
	mid := len(a) / 2
	if len(a)%2 == 1 {
		deltaPlus := (a[mid+1] - a[mid]) / (g[mid+1] - g[mid])
		deltaMinus := (a[mid] - a[mid-1]) / (g[mid] - g[mid-1])
		dS := (g[mid+1] - g[mid-1]) / 2
		return (deltaPlus - deltaMinus) / dS, nil
	}
	deltaPlus := (a[mid+1] - a[mid-1]) / (g[mid+1] - g[mid-1])
	deltaMinus := (a[mid] - a[mid-2]) / (g[mid] - g[mid-2])
	return (deltaPlus - deltaMinus) / (g[mid] - g[mid-1]), nil
}

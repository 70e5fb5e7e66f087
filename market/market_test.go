package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatForward(t *testing.T) {
	c := FlatForward{Rate: 0.05}

	require.Equal(t, 1.0, c.Discount(0))
	require.InDelta(t, math.Exp(-0.1), c.Discount(2), 1e-15)
	require.InDelta(t, 0.05, ZeroRate(c, 0.7), 1e-15)
}

func TestBlackConstantVol(t *testing.T) {
	c := BlackConstantVol{Vol: 0.2}

	require.InDelta(t, 0.08, c.BlackVariance(2, 100), 1e-15)
	require.Equal(t, 0.2, c.BlackVol(5, 42))
}

func testSurface(t *testing.T, ex Extrapolation) *BlackVarianceSurface {
	t.Helper()
	s, err := NewBlackVarianceSurface(
		[]float64{0.5, 1},
		[]float64{90, 110},
		[][]float64{
			{0.30, 0.28},
			{0.20, 0.22},
		},
		ex, ex,
	)
	require.NoError(t, err)
	return s
}

func TestBlackVarianceSurfaceNodes(t *testing.T) {
	s := testSurface(t, ConstantExtrapolation)

	require.InDelta(t, 0.5*0.09, s.BlackVariance(0.5, 90), 1e-15)
	require.InDelta(t, 0.0484, s.BlackVariance(1, 110), 1e-15)
	require.InDelta(t, 0.28, s.BlackVol(1, 90), 1e-15)
	require.Equal(t, 0.0, s.BlackVariance(0, 100))
	require.Equal(t, 1.0, s.MaxTime())
}

func TestBlackVarianceSurfaceBilinear(t *testing.T) {
	s := testSurface(t, ConstantExtrapolation)

	// midpoint of the four nodes in both directions
	want := (0.5*0.09 + 0.0784 + 0.5*0.04 + 0.0484) / 4
	require.InDelta(t, want, s.BlackVariance(0.75, 100), 1e-15)

	// between t=0 and the first maturity variance is linear from zero
	require.InDelta(t, 0.5*0.5*0.09, s.BlackVariance(0.25, 90), 1e-15)
	require.InDelta(t, 0.30, s.BlackVol(0.25, 90), 1e-12)
}

func TestBlackVarianceSurfaceExtrapolation(t *testing.T) {
	constant := testSurface(t, ConstantExtrapolation)
	require.Equal(t, constant.BlackVariance(1, 110), constant.BlackVariance(1, 150))
	require.Equal(t, constant.BlackVariance(0.5, 90), constant.BlackVariance(0.5, 10))

	linear := testSurface(t, LinearExtrapolation)
	// slope of the strike segment at t=1 is (0.0484-0.0784)/20 per unit strike
	require.InDelta(t, 0.0484-0.03/2, linear.BlackVariance(1, 120), 1e-15)

	// beyond the last maturity the volatility stays constant
	require.InDelta(t, 0.22, constant.BlackVol(3, 110), 1e-12)
	require.InDelta(t, 3*0.0484, constant.BlackVariance(3, 110), 1e-15)
}

func TestNewBlackVarianceSurfaceRejects(t *testing.T) {
	for _, tc := range []struct {
		name    string
		times   []float64
		strikes []float64
		vols    [][]float64
	}{
		{name: "EMPTY", times: nil, strikes: []float64{100}, vols: [][]float64{{}}},
		{name: "ROW_COUNT", times: []float64{1}, strikes: []float64{90, 110}, vols: [][]float64{{0.2}}},
		{name: "COLUMN_COUNT", times: []float64{1, 2}, strikes: []float64{100}, vols: [][]float64{{0.2}}},
		{name: "ZERO_MATURITY", times: []float64{0, 1}, strikes: []float64{100}, vols: [][]float64{{0.2, 0.2}}},
		{name: "UNSORTED_TIMES", times: []float64{1, 0.5}, strikes: []float64{100}, vols: [][]float64{{0.2, 0.2}}},
		{name: "UNSORTED_STRIKES", times: []float64{1}, strikes: []float64{110, 90}, vols: [][]float64{{0.2}, {0.2}}},
		{name: "DECREASING_VARIANCE", times: []float64{1, 2}, strikes: []float64{100}, vols: [][]float64{{0.4, 0.2}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBlackVarianceSurface(tc.times, tc.strikes, tc.vols, ConstantExtrapolation, ConstantExtrapolation)
			require.ErrorIs(t, err, ErrInvalidSurface)
		})
	}
}

package fdm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

func TestGridLimitsReferenceCase(t *testing.T) {
	sMin, sMax := GridLimits(100, 100, 0.2, 1.0)

	// prefactor 1.25, 4*1.25*0.2*1 = 1
	require.InDelta(t, 100/math.E, sMin, 1e-12)
	require.InDelta(t, 100*math.E, sMax, 1e-12)
}

func TestGridLimitsSafetyZone(t *testing.T) {
	for _, tc := range []struct {
		name              string
		spot, strike      float64
		vol, residualTime float64
	}{
		{name: "STRIKE_ABOVE_RANGE", spot: 100, strike: 150, vol: 0.2, residualTime: 0.1},
		{name: "STRIKE_BELOW_RANGE", spot: 100, strike: 60, vol: 0.2, residualTime: 0.1},
		{name: "SHORT_EXPIRY_ATM", spot: 100, strike: 100, vol: 0.01, residualTime: 0.01},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sMin, sMax := GridLimits(tc.spot, tc.strike, tc.vol, tc.residualTime)
			requireContains(t, tc.spot, tc.strike, sMin, sMax)
			// the spot stays at the geometric center
			require.InDelta(t, tc.spot*tc.spot, sMin*sMax, 1e-9*tc.spot*tc.spot)
		})
	}
}

func TestGridLimitsContainmentRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(20240601))
	for i := 0; i < 2000; i++ {
		spot := 20 + 180*rng.Float64()
		strike := 20 + 180*rng.Float64()
		vol := 0.02 + 0.98*rng.Float64()
		residualTime := 0.01 + 5*rng.Float64()

		sMin, sMax := GridLimits(spot, strike, vol, residualTime)
		requireContains(t, spot, strike, sMin, sMax)
	}
}

func requireContains(t *testing.T, spot, strike, sMin, sMax float64) {
	t.Helper()
	const tol = 1e-9
	require.LessOrEqual(t, sMin, math.Min(spot, strike)/1.1*(1+tol))
	require.GreaterOrEqual(t, sMax, math.Max(spot, strike)*1.1*(1-tol))
	require.Less(t, sMin, spot)
	require.Greater(t, sMax, spot)
}

func TestNewLogGrid(t *testing.T) {
	for _, n := range []int{3, 4, 51, 100, 101, 401} {
		sMin, sMax := GridLimits(100, 95, 0.25, 0.75)
		g := NewLogGrid(sMin, sMax, n)

		require.Equal(t, n, g.Size())
		require.Equal(t, sMin, g.Min())
		require.InEpsilon(t, sMax, g.Max(), 1e-12)

		points := g.Points()
		for j := 0; j < n-1; j++ {
			require.Less(t, points[j], points[j+1])
			require.InDelta(t, g.LogSpacing(), math.Log(points[j+1]/points[j]), 1e-12)
		}
		require.Equal(t, floats.Max(points), g.Max())
	}
}

func TestNewLogGridOddSizeCentersSpot(t *testing.T) {
	sMin, sMax := GridLimits(100, 120, 0.3, 2)
	g := NewLogGrid(sMin, sMax, 101)

	require.InEpsilon(t, 100.0, g.At(50), 1e-12)
}

func TestGridPointsIsACopy(t *testing.T) {
	g := NewLogGrid(50, 200, 5)
	points := g.Points()
	points[0] = -1

	require.Equal(t, 50.0, g.At(0))
}

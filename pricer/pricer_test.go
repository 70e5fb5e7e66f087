package pricer

import (
	"math"
	"testing"

	"github.com/bcdannyboy/fdquant/fdm"
	"github.com/bcdannyboy/fdquant/models"
	"github.com/stretchr/testify/require"
)

func atmCall(n int) Request {
	return Request{
		Type:         fdm.Call,
		Spot:         100,
		Strike:       100,
		RiskFreeRate: 0.1,
		ResidualTime: 1,
		Volatility:   0.2,
		GridPoints:   n,
	}
}

func TestSolveMatchesClosedForm(t *testing.T) {
	g, err := Solve(atmCall(401))
	require.NoError(t, err)

	ref := models.BlackScholesMerton(100, 100, 1, 0.1, 0, 0.2, true)
	require.InDelta(t, 13.2697, ref.Price, 1e-4)
	require.InDelta(t, ref.Price, g.Value, 0.01)
	require.InDelta(t, ref.Delta, g.Delta, 1e-3)
	require.InDelta(t, ref.Gamma, g.Gamma, 1e-4)
	require.InDelta(t, ref.Theta, g.Theta, 0.05)
	require.Zero(t, g.Vega)
	require.Zero(t, g.Rho)
}

func TestSolvePutCallParity(t *testing.T) {
	req := Request{Spot: 100, Strike: 100, RiskFreeRate: 0.05, ResidualTime: 1, Volatility: 0.2, GridPoints: 101}

	req.Type = fdm.Call
	call, err := Solve(req)
	require.NoError(t, err)
	req.Type = fdm.Put
	put, err := Solve(req)
	require.NoError(t, err)

	require.InDelta(t, 100-100*math.Exp(-0.05), call.Value-put.Value, 1e-2)
	require.InDelta(t, 1.0, call.Delta-put.Delta, 1e-2)
}

func TestSolveConvergesMonotonically(t *testing.T) {
	study, err := Convergence(atmCall(0), []int{101, 201, 401, 801})
	require.NoError(t, err)
	require.Len(t, study.Points, 4)

	for i := 1; i < len(study.Points); i++ {
		prev, cur := math.Abs(study.Points[i-1].Error), math.Abs(study.Points[i].Error)
		require.Less(t, cur, prev, "grid %d", study.Points[i].GridPoints)
	}
	require.Less(t, math.Abs(study.Points[2].Error), 0.01)
	require.InDelta(t, math.Abs(study.Points[0].Error), study.MaxAbsError(), 1e-15)
}

func TestSolveCrankNicolsonIsMoreAccurate(t *testing.T) {
	req := atmCall(201)
	implicit, err := Solve(req)
	require.NoError(t, err)

	req.Scheme = CrankNicolson
	cn, err := Solve(req)
	require.NoError(t, err)

	ref, err := ClosedForm(req)
	require.NoError(t, err)
	require.Less(t, math.Abs(cn.Value-ref), math.Abs(implicit.Value-ref))
	require.InDelta(t, ref, cn.Value, 5e-3)
}

func TestSolveOddAndEvenGridsAgree(t *testing.T) {
	odd, err := Solve(atmCall(101))
	require.NoError(t, err)
	even, err := Solve(atmCall(100))
	require.NoError(t, err)

	require.InDelta(t, odd.Value, even.Value, 0.05)
	require.InDelta(t, odd.Delta, even.Delta, 5e-3)
	require.InDelta(t, odd.Gamma, even.Gamma, 5e-4)
}

func TestSolveDividendAndStraddle(t *testing.T) {
	for _, tc := range []struct {
		name string
		req  Request
		tol  float64
	}{
		{
			name: "CALL_WITH_DIVIDEND",
			req:  Request{Type: fdm.Call, Spot: 100, Strike: 100, RiskFreeRate: 0.05, DividendYield: 0.03, ResidualTime: 1, Volatility: 0.2, GridPoints: 201},
			tol:  0.02,
		},
		{
			name: "OTM_CALL",
			req:  Request{Type: fdm.Call, Spot: 100, Strike: 130, RiskFreeRate: 0.05, ResidualTime: 0.5, Volatility: 0.3, GridPoints: 201},
			tol:  0.02,
		},
		{
			name: "STRADDLE",
			req:  Request{Type: fdm.Straddle, Spot: 100, Strike: 100, RiskFreeRate: 0.05, ResidualTime: 1, Volatility: 0.2, GridPoints: 101},
			tol:  0.05,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Solve(tc.req)
			require.NoError(t, err)
			ref, err := ClosedForm(tc.req)
			require.NoError(t, err)
			require.InDelta(t, ref, g.Value, tc.tol)
		})
	}
}

func TestSolveAmerican(t *testing.T) {
	req := Request{Type: fdm.Put, Spot: 100, Strike: 100, RiskFreeRate: 0.05, ResidualTime: 1, Volatility: 0.2, GridPoints: 201}
	european, err := Solve(req)
	require.NoError(t, err)

	req.Exercise = American
	american, err := Solve(req)
	require.NoError(t, err)
	require.Greater(t, american.Value, european.Value+0.3)
	require.GreaterOrEqual(t, american.Value, 0.0)

	// without dividends early exercise of a call is never optimal
	req.Type = fdm.Call
	americanCall, err := Solve(req)
	require.NoError(t, err)
	req.Exercise = European
	europeanCall, err := Solve(req)
	require.NoError(t, err)
	require.InDelta(t, europeanCall.Value, americanCall.Value, 1e-9)
}

func TestSolveTimeStepsOverride(t *testing.T) {
	req := atmCall(101)
	base, err := Solve(req)
	require.NoError(t, err)

	req.TimeSteps = 101
	same, err := Solve(req)
	require.NoError(t, err)
	require.Equal(t, base, same)

	req.TimeSteps = 400
	finer, err := Solve(req)
	require.NoError(t, err)
	require.NotEqual(t, base.Value, finer.Value)
}

func TestSolveRejectsInvalidRequest(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "TYPE", mutate: func(r *Request) { r.Type = fdm.OptionType(0) }},
		{name: "SPOT", mutate: func(r *Request) { r.Spot = 0 }},
		{name: "STRIKE", mutate: func(r *Request) { r.Strike = -1 }},
		{name: "VOLATILITY", mutate: func(r *Request) { r.Volatility = 0 }},
		{name: "RESIDUAL_TIME", mutate: func(r *Request) { r.ResidualTime = math.NaN() }},
		{name: "RATE", mutate: func(r *Request) { r.RiskFreeRate = math.Inf(1) }},
		{name: "DIVIDEND", mutate: func(r *Request) { r.DividendYield = math.NaN() }},
		{name: "GRID_POINTS", mutate: func(r *Request) { r.GridPoints = 3 }},
		{name: "TIME_STEPS", mutate: func(r *Request) { r.TimeSteps = -1 }},
		{name: "EXERCISE", mutate: func(r *Request) { r.Exercise = Exercise(5) }},
		{name: "SCHEME", mutate: func(r *Request) { r.Scheme = Scheme(5) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := atmCall(101)
			tc.mutate(&req)
			_, err := Solve(req)
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestPricerMemoizes(t *testing.T) {
	p := NewPricer(atmCall(101))

	v1, err := p.Value()
	require.NoError(t, err)
	v2, err := p.Value()
	require.NoError(t, err)
	require.Equal(t, math.Float64bits(v1), math.Float64bits(v2))
	require.Zero(t, p.Vega())
	require.Zero(t, p.Rho())

	p.SetVolatility(0.3)
	v3, err := p.Value()
	require.NoError(t, err)
	require.Greater(t, v3, v1)
	require.Equal(t, 0.3, p.Request().Volatility)

	p.SetSpot(110)
	delta, err := p.Delta()
	require.NoError(t, err)
	require.Greater(t, delta, 0.5)

	p.SetResidualTime(-1)
	_, err = p.Gamma()
	require.ErrorIs(t, err, ErrInvalidRequest)

	p.SetResidualTime(1)
	p.SetStrike(100)
	p.SetRiskFreeRate(0.1)
	p.SetDividendYield(0)
	p.SetSpot(100)
	p.SetVolatility(0.2)
	theta, err := p.Theta()
	require.NoError(t, err)
	v4, err := p.Value()
	require.NoError(t, err)
	require.Equal(t, v1, v4)
	require.Less(t, theta, 0.0)
}

func TestParseExerciseAndScheme(t *testing.T) {
	e, err := ParseExercise("American")
	require.NoError(t, err)
	require.Equal(t, American, e)
	e, err = ParseExercise("")
	require.NoError(t, err)
	require.Equal(t, European, e)
	_, err = ParseExercise("bermudan")
	require.ErrorIs(t, err, ErrInvalidRequest)

	s, err := ParseScheme("CN")
	require.NoError(t, err)
	require.Equal(t, CrankNicolson, s)
	require.Equal(t, "crank-nicolson", s.String())
	_, err = ParseScheme("explicit")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

package pricer

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/fdquant/fdm"
	"github.com/bcdannyboy/fdquant/market"
)

// MarketInputs describes an option against term structures instead of flat
// parameters. A nil DividendCurve means no dividends.
type MarketInputs struct {
	Type          fdm.OptionType
	Exercise      Exercise
	Spot          float64
	Strike        float64
	ResidualTime  float64
	RiskFreeCurve market.YieldCurve
	DividendCurve market.YieldCurve
	Volatility    market.BlackVolCurve
	GridPoints    int
	TimeSteps     int
	Scheme        Scheme
}

// FromMarket collapses the term structures to the constant rate, yield and
// volatility that reproduce their values at the option's expiry and strike.
func FromMarket(in MarketInputs) (Request, error) {
	if in.RiskFreeCurve == nil || in.Volatility == nil {
		return Request{}, fmt.Errorf("%w: risk-free curve and volatility are required", ErrInvalidRequest)
	}
	if !(in.ResidualTime > 0) {
		return Request{}, fmt.Errorf("%w: residual time must be positive, got %g", ErrInvalidRequest, in.ResidualTime)
	}

	T := in.ResidualTime
	req := Request{
		Type:         in.Type,
		Exercise:     in.Exercise,
		Spot:         in.Spot,
		Strike:       in.Strike,
		ResidualTime: T,
		RiskFreeRate: market.ZeroRate(in.RiskFreeCurve, T),
		Volatility:   math.Sqrt(in.Volatility.BlackVariance(T, in.Strike) / T),
		GridPoints:   in.GridPoints,
		TimeSteps:    in.TimeSteps,
		Scheme:       in.Scheme,
	}
	if in.DividendCurve != nil {
		req.DividendYield = market.ZeroRate(in.DividendCurve, T)
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

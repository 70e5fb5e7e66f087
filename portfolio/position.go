// Package portfolio prices books of independent options in parallel and
// reports the results.
package portfolio

import (
	"fmt"
	"os"

	"github.com/bcdannyboy/fdquant/fdm"
	"github.com/bcdannyboy/fdquant/pricer"
	"github.com/xhhuango/json"
)

// Position is one option as read from a portfolio file.
type Position struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Exercise      string  `json:"exercise,omitempty"`
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike"`
	RiskFreeRate  float64 `json:"risk_free_rate"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
	ResidualTime  float64 `json:"residual_time"`
	Volatility    float64 `json:"volatility"`
	GridPoints    int     `json:"grid_points,omitempty"`
	TimeSteps     int     `json:"time_steps,omitempty"`
	Scheme        string  `json:"scheme,omitempty"`
	// MarketPrice, when set, is inverted for an implied volatility.
	MarketPrice float64 `json:"market_price,omitempty"`
}

const seedVolatility = 0.2

// Defaults fill in solver settings a position leaves empty.
type Defaults struct {
	GridPoints int
	TimeSteps  int
	Scheme     pricer.Scheme
}

// Request converts p into a validated pricing request.
func (p Position) Request(d Defaults) (pricer.Request, error) {
	typ, err := fdm.ParseOptionType(p.Type)
	if err != nil {
		return pricer.Request{}, fmt.Errorf("position %s: %w", p.ID, err)
	}
	exercise, err := pricer.ParseExercise(p.Exercise)
	if err != nil {
		return pricer.Request{}, fmt.Errorf("position %s: %w", p.ID, err)
	}
	scheme := d.Scheme
	if p.Scheme != "" {
		if scheme, err = pricer.ParseScheme(p.Scheme); err != nil {
			return pricer.Request{}, fmt.Errorf("position %s: %w", p.ID, err)
		}
	}

	req := pricer.Request{
		Type:          typ,
		Exercise:      exercise,
		Spot:          p.Spot,
		Strike:        p.Strike,
		DividendYield: p.DividendYield,
		RiskFreeRate:  p.RiskFreeRate,
		ResidualTime:  p.ResidualTime,
		Volatility:    p.Volatility,
		GridPoints:    p.GridPoints,
		TimeSteps:     p.TimeSteps,
		Scheme:        scheme,
	}
	if req.GridPoints == 0 {
		req.GridPoints = d.GridPoints
	}
	if req.TimeSteps == 0 {
		req.TimeSteps = d.TimeSteps
	}
	// quoted positions may leave volatility to the inversion
	if req.Volatility == 0 && p.MarketPrice > 0 {
		req.Volatility = seedVolatility
	}
	if err := req.Validate(); err != nil {
		return pricer.Request{}, fmt.Errorf("position %s: %w", p.ID, err)
	}
	return req, nil
}

// Load reads a JSON array of positions from path.
func Load(path string) ([]Position, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio %s: %w", path, err)
	}
	var positions []Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("decoding portfolio %s: %w", path, err)
	}
	return positions, nil
}

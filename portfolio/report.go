package portfolio

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/bcdannyboy/fdquant/pricer"
	"github.com/shopspring/decimal"
	"github.com/xhhuango/json"
)

// Entry is one priced position in a report. Greeks are rounded for display;
// a position that failed carries only its error.
type Entry struct {
	ID                string           `json:"id"`
	Type              string           `json:"type"`
	Exercise          string           `json:"exercise"`
	Spot              float64          `json:"spot"`
	Strike            float64          `json:"strike"`
	ResidualTime      float64          `json:"residual_time"`
	Volatility        decimal.Decimal  `json:"volatility"`
	ImpliedVolatility *decimal.Decimal `json:"implied_volatility,omitempty"`
	Value             decimal.Decimal  `json:"value"`
	Delta             decimal.Decimal  `json:"delta"`
	Gamma             decimal.Decimal  `json:"gamma"`
	Theta             decimal.Decimal  `json:"theta"`
	Vega              decimal.Decimal  `json:"vega"`
	Rho               decimal.Decimal  `json:"rho"`
	Error             string           `json:"error,omitempty"`
}

// Report is the output of Evaluate.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Positions   []Entry   `json:"positions"`
	Failed      int       `json:"failed"`
}

const (
	pricePlaces = 4
	greekPlaces = 6
)

// Evaluate converts positions to requests, implies volatilities for quoted
// positions, prices everything and assembles a report in input order. Only
// a cancelled ctx makes it fail; bad positions are reported per entry.
func Evaluate(ctx context.Context, positions []Position, defaults Defaults, cfg Config) (Report, error) {
	entries := make([]Entry, len(positions))
	var requests []pricer.Request
	var prices []float64
	var slots []int

	for i, p := range positions {
		entries[i] = Entry{ID: p.ID, Type: p.Type, Exercise: p.Exercise, Spot: p.Spot, Strike: p.Strike, ResidualTime: p.ResidualTime}
		req, err := p.Request(defaults)
		if err != nil {
			entries[i].Error = err.Error()
			continue
		}
		entries[i].Type = req.Type.String()
		entries[i].Exercise = req.Exercise.String()
		requests = append(requests, req)
		prices = append(prices, p.MarketPrice)
		slots = append(slots, i)
	}

	vols, volErrs, err := ImpliedVolatilities(ctx, requests, prices, cfg)
	if err != nil {
		return Report{}, err
	}
	for k, vol := range vols {
		if volErrs[k] != nil {
			entries[slots[k]].Error = volErrs[k].Error()
			continue
		}
		if vol > 0 {
			iv := round(vol, greekPlaces)
			entries[slots[k]].ImpliedVolatility = &iv
			requests[k].Volatility = vol
		}
	}

	results, err := PriceAll(ctx, requests, cfg)
	if err != nil {
		return Report{}, err
	}
	for k, res := range results {
		e := &entries[slots[k]]
		if e.Error != "" {
			continue
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
			continue
		}
		e.Volatility = round(res.Request.Volatility, greekPlaces)
		e.Value = round(res.Greeks.Value, pricePlaces)
		e.Delta = round(res.Greeks.Delta, greekPlaces)
		e.Gamma = round(res.Greeks.Gamma, greekPlaces)
		e.Theta = round(res.Greeks.Theta, pricePlaces)
		e.Vega = round(res.Greeks.Vega, greekPlaces)
		e.Rho = round(res.Greeks.Rho, greekPlaces)
	}

	report := Report{GeneratedAt: time.Now().UTC(), Positions: entries}
	for _, e := range entries {
		if e.Error != "" {
			report.Failed++
		}
	}
	cfg.logger().Info("portfolio evaluated", "positions", len(entries), "failed", report.Failed)
	return report, nil
}

// WriteReport encodes r as indented JSON.
func WriteReport(w io.Writer, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func round(f float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(sanitizeFloat(f)).Round(places)
}

func sanitizeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

package market

import "math"

// YieldCurve returns discount factors for times measured in years.
type YieldCurve interface {
	Discount(t float64) float64
}

// FlatForward is a yield curve with a single continuously compounded rate.
type FlatForward struct {
	Rate float64
}

func (f FlatForward) Discount(t float64) float64 {
	return math.Exp(-f.Rate * t)
}

// ZeroRate returns the continuously compounded rate implied by the discount
// factor to t. It is undefined for t <= 0.
func ZeroRate(c YieldCurve, t float64) float64 {
	return -math.Log(c.Discount(t)) / t
}

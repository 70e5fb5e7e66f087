// Package models holds closed-form option pricing formulas used as
// references for the PDE pricer.
package models

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BSMResult holds a closed-form European price and its sensitivities.
type BSMResult struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// BlackScholesMerton prices a European call or put on an underlying paying a
// continuous dividend yield q. T is in years; theta is per year.
func BlackScholesMerton(S, K, T, r, q, sigma float64, isCall bool) BSMResult {
	norm := distuv.UnitNormal
	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	dq := math.Exp(-q * T)
	dr := math.Exp(-r * T)
	pdf := norm.Prob(d1)

	gamma := dq * pdf / (S * sigma * sqrtT)
	vega := S * dq * pdf * sqrtT
	decay := -S * dq * pdf * sigma / (2 * sqrtT)

	if isCall {
		return BSMResult{
			Price: S*dq*norm.CDF(d1) - K*dr*norm.CDF(d2),
			Delta: dq * norm.CDF(d1),
			Gamma: gamma,
			Theta: decay - r*K*dr*norm.CDF(d2) + q*S*dq*norm.CDF(d1),
			Vega:  vega,
			Rho:   K * T * dr * norm.CDF(d2),
		}
	}
	return BSMResult{
		Price: K*dr*norm.CDF(-d2) - S*dq*norm.CDF(-d1),
		Delta: -dq * norm.CDF(-d1),
		Gamma: gamma,
		Theta: decay + r*K*dr*norm.CDF(-d2) - q*S*dq*norm.CDF(-d1),
		Vega:  vega,
		Rho:   -K * T * dr * norm.CDF(-d2),
	}
}

// Straddle sums the closed-form call and put.
func Straddle(S, K, T, r, q, sigma float64) BSMResult {
	c := BlackScholesMerton(S, K, T, r, q, sigma, true)
	p := BlackScholesMerton(S, K, T, r, q, sigma, false)
	return BSMResult{
		Price: c.Price + p.Price,
		Delta: c.Delta + p.Delta,
		Gamma: c.Gamma + p.Gamma,
		Theta: c.Theta + p.Theta,
		Vega:  c.Vega + p.Vega,
		Rho:   c.Rho + p.Rho,
	}
}

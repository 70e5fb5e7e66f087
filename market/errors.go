// Package market provides the read-only term structures a pricer consults
// for discount factors and Black variances.
package market

import "errors"

// ErrInvalidSurface is returned when a volatility surface is built from
// inconsistent or non-increasing inputs.
var ErrInvalidSurface = errors.New("market: invalid surface")

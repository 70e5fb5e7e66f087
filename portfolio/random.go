package portfolio

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

var bookTypes = []string{"call", "put", "straddle"}

// RandomBook draws n positions around a spot of 100 for demos and load
// tests: strikes within 30% of spot, expiries up to two years, rates up to
// 8% and volatilities between 10% and 60%. Roughly one in four positions is
// American.
func RandomBook(rng *rand.Rand, n int) []Position {
	book := make([]Position, n)
	for i := range book {
		exercise := "european"
		if rng.Intn(4) == 0 {
			exercise = "american"
		}
		book[i] = Position{
			ID:           fmt.Sprintf("demo-%04d", i+1),
			Type:         bookTypes[rng.Intn(len(bookTypes))],
			Exercise:     exercise,
			Spot:         100,
			Strike:       roundTo(70+60*rng.Float64(), 2),
			RiskFreeRate: roundTo(0.08*rng.Float64(), 4),
			ResidualTime: roundTo(1.0/12+2*rng.Float64(), 4),
			Volatility:   roundTo(0.1+0.5*rng.Float64(), 4),
		}
	}
	return book
}

func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

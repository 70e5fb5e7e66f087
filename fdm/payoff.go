package fdm

import (
	"math"
	"strings"
)

// OptionType selects the terminal payoff.
type OptionType int

const (
	Call OptionType = iota + 1
	Put
	Straddle
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	case Straddle:
		return "straddle"
	}
	return "unknown"
}

// ParseOptionType maps "call", "put" or "straddle" (any case) to an OptionType.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	case "straddle":
		return Straddle, nil
	}
	return 0, opErrorf(opPayoff, ErrInvalidArgument, "invalid option type %q", s)
}

// Intrinsic returns the exercise value of t at underlying level s.
func Intrinsic(t OptionType, strike, s float64) (float64, error) {
	switch t {
	case Call:
		return math.Max(s-strike, 0), nil
	case Put:
		return math.Max(strike-s, 0), nil
	case Straddle:
		return math.Abs(strike - s), nil
	}
	return 0, opErrorf(opPayoff, ErrInvalidArgument, "invalid option type %d", int(t))
}

// Payoff samples the terminal payoff on the grid. The result is the initial
// condition of the backward time stepping.
func Payoff(t OptionType, strike float64, grid Grid) ([]float64, error) {
	values := make([]float64, grid.Size())
	for j := range values {
		v, err := Intrinsic(t, strike, grid.At(j))
		if err != nil {
			return nil, err
		}
		values[j] = v
	}
	return values, nil
}

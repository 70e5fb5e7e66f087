package fdm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntrinsic(t *testing.T) {
	levels := []float64{90, 100, 110}

	for _, tc := range []struct {
		name string
		typ  OptionType
		want []float64
	}{
		{name: "CALL", typ: Call, want: []float64{0, 0, 10}},
		{name: "PUT", typ: Put, want: []float64{10, 0, 0}},
		{name: "STRADDLE", typ: Straddle, want: []float64{10, 0, 10}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for i, s := range levels {
				v, err := Intrinsic(tc.typ, 100, s)
				require.NoError(t, err)
				require.Equal(t, tc.want[i], v)
			}
		})
	}
}

func TestPayoffOnGrid(t *testing.T) {
	g := NewLogGrid(100/1.21, 121, 5) // 82.64.., 90.90.., 100, 110, 121

	values, err := Payoff(Call, 100, g)
	require.NoError(t, err)
	require.Len(t, values, 5)
	require.Equal(t, 0.0, values[0])
	require.Equal(t, 0.0, values[1])
	require.InDelta(t, 0.0, values[2], 1e-12)
	require.InDelta(t, 10.0, values[3], 1e-12)
	require.InDelta(t, 21.0, values[4], 1e-12)

	values, err = Payoff(Straddle, 100, g)
	require.NoError(t, err)
	for j, v := range values {
		require.GreaterOrEqual(t, v, 0.0, "node %d", j)
	}
	require.InDelta(t, 100-100/1.21, values[0], 1e-12)
}

func TestPayoffInvalidType(t *testing.T) {
	g := NewLogGrid(50, 150, 5)

	_, err := Payoff(OptionType(42), 100, g)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))
	require.Contains(t, err.Error(), "invalid option type")

	_, err = Payoff(OptionType(0), 100, g)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseOptionType(t *testing.T) {
	for in, want := range map[string]OptionType{
		"call":     Call,
		"CALL":     Call,
		" put ":    Put,
		"p":        Put,
		"Straddle": Straddle,
	} {
		got, err := ParseOptionType(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseOptionType("binary")
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, "straddle", Straddle.String())
}

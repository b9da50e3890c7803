package liquidity

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"liquidityCore/internal/fixedpoint"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

// sqrt prices of ticks -10 and 10
var testRange = Range{Low: u(999_500), High: u(1_000_500)}

func withCurrent(current uint64) Range {
	r := testRange
	r.Current = u(current)
	return r
}

func TestFromAmountsInsideRange(t *testing.T) {
	liq, err := FromAmounts(u(2_000_000), u(2_000_000), withCurrent(1_000_000))
	require.NoError(t, err)
	// Lx = 2_001_000_000, Ly = 2_000_000_000
	require.Equal(t, uint64(2_000_000_000), liq.Uint64())
}

func TestFromAmountsOutsideRange(t *testing.T) {
	below, err := FromAmounts(u(2_000_000), u(0), withCurrent(900_000))
	require.NoError(t, err)
	require.Equal(t, uint64(2_001_000_000), below.Uint64())

	above, err := FromAmounts(u(0), u(2_000_000), withCurrent(1_100_000))
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000_000), above.Uint64())

	// boundaries count as outside
	atLow, err := FromAmounts(u(2_000_000), u(0), withCurrent(999_500))
	require.NoError(t, err)
	require.Equal(t, below.Uint64(), atLow.Uint64())
}

func TestInvalidRange(t *testing.T) {
	_, err := FromAmounts(u(1), u(1), Range{Current: u(1), Low: u(5), High: u(5)})
	require.ErrorIs(t, err, fixedpoint.ErrInvalidInput)

	_, err = FromAmounts(u(1), u(1), Range{Current: u(1), Low: u(0), High: u(5)})
	require.ErrorIs(t, err, fixedpoint.ErrInvalidInput)

	_, _, err = ToAmounts(u(1), Range{Current: u(1), Low: u(9), High: u(5)})
	require.ErrorIs(t, err, fixedpoint.ErrInvalidInput)
}

func TestFromAmountsOverflow(t *testing.T) {
	_, err := FromAmounts(fixedpoint.MaxUint128(), u(1), withCurrent(1_000_000))
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)
}

func TestRoundTrip(t *testing.T) {
	const tolerance = 2

	cases := []struct {
		name    string
		current uint64
		x, y    uint64
	}{
		{name: "below", current: 900_000, x: 2_000_000, y: 0},
		{name: "above", current: 1_100_000, x: 0, y: 2_000_000},
		{name: "inside", current: 1_000_000, x: 2_000_000, y: 2_000_000},
		{name: "inside x bound", current: 1_000_000, x: 1_000, y: 5_000_000_000},
		{name: "inside large", current: 1_000_200, x: 987_654_321_000, y: 123_456_789_000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := withCurrent(tc.current)
			liq, err := FromAmounts(u(tc.x), u(tc.y), r)
			require.NoError(t, err)

			gotX, gotY, err := ToAmounts(liq, r)
			require.NoError(t, err)

			// never pays out more than was deposited
			require.LessOrEqual(t, gotX.Uint64(), tc.x)
			require.LessOrEqual(t, gotY.Uint64(), tc.y)

			// the limiting side comes back within rounding
			limitX := tc.x - gotX.Uint64()
			limitY := tc.y - gotY.Uint64()
			require.True(t, limitX <= tolerance || limitY <= tolerance,
				"x %d->%d, y %d->%d", tc.x, gotX.Uint64(), tc.y, gotY.Uint64())
		})
	}
}

package fixedpoint

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func TestMulDiv(t *testing.T) {
	got, err := Mul(u(2_000_000), u(1_500_000))
	require.NoError(t, err)
	require.Equal(t, uint64(3_000_000), got.Uint64())

	got, err = Div(u(3_000_000), u(2_000_000))
	require.NoError(t, err)
	require.Equal(t, uint64(1_500_000), got.Uint64())

	_, err = Div(u(1), u(0))
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestOperandBound(t *testing.T) {
	tooBig := new(uint256.Int).AddUint64(MaxUint128(), 1)

	_, err := Mul(tooBig, u(1))
	require.ErrorIs(t, err, ErrOverflow)
	_, err = Div(u(1), tooBig)
	require.ErrorIs(t, err, ErrOverflow)

	// operand in range, scaled result out of range
	_, err = Div(MaxUint128(), u(1))
	require.ErrorIs(t, err, ErrOverflow)

	got, err := Mul(MaxUint128(), One())
	require.NoError(t, err)
	require.True(t, got.Eq(MaxUint128()))
}

func TestSqrtSingleRefinement(t *testing.T) {
	cases := []struct {
		in   uint64
		want uint64
	}{
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 4, want: 2},
		{in: 100, want: 26},
		// not converged: sqrt(1e12) is 1e6
		{in: 1_000_000_000_000, want: 250_000_000_001},
	}
	for _, tc := range cases {
		got, err := Sqrt(u(tc.in))
		require.NoError(t, err)
		require.Equal(t, tc.want, got.Uint64(), "sqrt(%d)", tc.in)
	}
}

func TestLinearTickToSqrtPrice(t *testing.T) {
	got, err := LinearTickToSqrtPrice(10)
	require.NoError(t, err)
	require.Equal(t, uint64(10_001_000), got.Uint64())

	got, err = LinearTickToSqrtPrice(-10)
	require.NoError(t, err)
	require.Equal(t, uint64(99_990), got.Uint64())

	got, err = LinearTickToSqrtPrice(0)
	require.NoError(t, err)
	require.Equal(t, Precision, got.Uint64())

	_, err = LinearTickToSqrtPrice(256)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = LinearTickToSqrtPrice(-256)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLinearRoundTrip(t *testing.T) {
	for _, tick := range []int32{-255, -100, -10, -1, 0, 1, 10, 100, 255} {
		price, err := LinearTickToSqrtPrice(tick)
		require.NoError(t, err)
		back, err := LinearSqrtPriceToTick(price)
		require.NoError(t, err)
		require.Equal(t, tick, back, "tick %d price %s", tick, price.Dec())
	}

	_, err := LinearSqrtPriceToTick(u(0))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTickToSqrtPriceGeometric(t *testing.T) {
	got, err := TickToSqrtPrice(0)
	require.NoError(t, err)
	require.Equal(t, Precision, got.Uint64())

	got, err = TickToSqrtPrice(10)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_500), got.Uint64())

	got, err = TickToSqrtPrice(-10)
	require.NoError(t, err)
	require.Equal(t, uint64(999_500), got.Uint64())

	_, err = TickToSqrtPrice(MaxTick + 1)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = TickToSqrtPrice(MinTick - 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTickToSqrtPriceStrictlyIncreasing(t *testing.T) {
	for _, start := range []int32{MinTick, -30_001, -1_000, -3, 0, 777, 29_999, MaxTick - 20} {
		prev, err := TickToSqrtPrice(start)
		require.NoError(t, err)
		for tick := start + 1; tick <= start+20 && tick <= MaxTick; tick++ {
			cur, err := TickToSqrtPrice(tick)
			require.NoError(t, err)
			require.True(t, cur.Gt(prev), "tick %d: %s <= %s", tick, cur.Dec(), prev.Dec())
			prev = cur
		}
	}
}

func TestSqrtPriceToTick(t *testing.T) {
	for _, tick := range []int32{MinTick, -12_345, -10, -1, 0, 1, 10, 4_096, MaxTick} {
		price, err := TickToSqrtPrice(tick)
		require.NoError(t, err)
		back, err := SqrtPriceToTick(price)
		require.NoError(t, err)
		require.Equal(t, tick, back)
	}

	// between tick 0 and tick 1
	back, err := SqrtPriceToTick(u(Precision + 10))
	require.NoError(t, err)
	require.Equal(t, int32(0), back)

	_, err = SqrtPriceToTick(u(0))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = SqrtPriceToTick(u(1))
	require.ErrorIs(t, err, ErrInvalidInput)
}

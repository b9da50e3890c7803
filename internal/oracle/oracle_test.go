package oracle

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidityCore/internal/fixedpoint"
)

func TestSeed(t *testing.T) {
	s := Seed(3, uint256.NewInt(1_000_000), 42)
	assert.Equal(t, uint64(3), s.PoolID)
	assert.Equal(t, uint64(1_000_000), s.PriceAverage.Uint64())
	assert.True(t, s.PriceCumulative.IsZero())
	assert.Equal(t, uint64(42), s.Timestamp)
}

func TestAdvance(t *testing.T) {
	s := Seed(1, uint256.NewInt(1_000_000), 10)

	next, err := Advance(s, uint256.NewInt(2_000_000), 14)
	require.NoError(t, err)
	// (1_000_000*95 + 2_000_000*5) / 100
	assert.Equal(t, uint64(1_050_000), next.PriceAverage.Uint64())
	assert.Equal(t, uint64(8_000_000), next.PriceCumulative.Uint64())
	assert.Equal(t, uint64(14), next.Timestamp)

	// input sample is not mutated
	assert.Equal(t, uint64(1_000_000), s.PriceAverage.Uint64())
}

func TestAdvanceSameBlock(t *testing.T) {
	s := Seed(1, uint256.NewInt(1_000_000), 10)
	s.PriceCumulative = uint256.NewInt(77)

	next, err := Advance(s, uint256.NewInt(3_000_000), 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), next.PriceCumulative.Uint64())
	assert.Equal(t, uint64(1_100_000), next.PriceAverage.Uint64())

	// clock going backwards is clamped
	back, err := Advance(next, uint256.NewInt(3_000_000), 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), back.PriceCumulative.Uint64())
	assert.Equal(t, uint64(5), back.Timestamp)
}

func TestAdvanceCumulativeOverflow(t *testing.T) {
	s := Seed(1, uint256.NewInt(1), 0)
	s.PriceCumulative = new(uint256.Int).SetAllOne()

	_, err := Advance(s, uint256.NewInt(1), 1)
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)
}

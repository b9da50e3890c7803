package amm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"liquidityCore/internal/fixedpoint"
	"liquidityCore/internal/model"
)

func validateRange(lower, upper, spacing int32) error {
	if lower >= upper {
		return fmt.Errorf("%w: lower tick %d not below upper tick %d", ErrInvalidPosition, lower, upper)
	}
	if lower < fixedpoint.MinTick || upper > fixedpoint.MaxTick {
		return fmt.Errorf("%w: ticks %d..%d out of range", ErrInvalidPosition, lower, upper)
	}
	if lower%spacing != 0 || upper%spacing != 0 {
		return fmt.Errorf("%w: ticks %d..%d not multiples of spacing %d", ErrInvalidPosition, lower, upper, spacing)
	}
	return nil
}

// wordPos returns the bitmap word of a compressed tick, rounding toward
// negative infinity.
func wordPos(compressed int32) int16 {
	return int16(compressed >> 8)
}

// bitPos returns the bit of a compressed tick within its word.
func bitPos(compressed int32) uint {
	return uint(compressed & 0xFF)
}

// flipTick toggles the initialized bit of tick.
func (o *op) flipTick(pool *model.Pool, tick int32) error {
	compressed := tick / pool.TickSpacing
	word, err := o.bitmapWord(pool.ID, wordPos(compressed))
	if err != nil {
		return err
	}
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), bitPos(compressed))
	word.Bits = new(uint256.Int).Xor(word.Bits, mask)
	return o.putBitmapWord(word)
}

func (o *op) tickInitialized(pool *model.Pool, tick int32) (bool, error) {
	compressed := tick / pool.TickSpacing
	word, err := o.bitmapWord(pool.ID, wordPos(compressed))
	if err != nil {
		return false, err
	}
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), bitPos(compressed))
	return !new(uint256.Int).And(word.Bits, mask).IsZero(), nil
}

// updateTick adds (or removes) liquidity referencing tick. Liquidity enters the
// active set at the lower tick and leaves it at the upper tick.
func (o *op) updateTick(pool *model.Pool, index int32, liquidity *uint256.Int, upper, remove bool) error {
	t, ok, err := o.tick(pool.ID, index)
	if err != nil {
		return err
	}
	if !ok {
		t = model.NewTick(pool.ID, index)
	}
	wasInitialized := t.Initialized()

	delta := liquidity.ToBig()
	if upper != remove {
		delta.Neg(delta)
	}
	t.LiquidityNet = new(big.Int).Add(t.LiquidityNet, delta)

	if remove {
		if t.LiquidityGross.Lt(liquidity) {
			return fmt.Errorf("tick %d gross liquidity below %s", index, liquidity.Dec())
		}
		t.LiquidityGross = new(uint256.Int).Sub(t.LiquidityGross, liquidity)
	} else {
		if t.LiquidityGross, err = fixedpoint.Add(t.LiquidityGross, liquidity); err != nil {
			return err
		}
	}

	if !wasInitialized && t.Initialized() {
		current, err := fixedpoint.SqrtPriceToTick(pool.SqrtPrice)
		if err != nil {
			return err
		}
		// growth below the current tick is attributed to the outside
		if index <= current {
			t.FeeGrowthOutsideX = pool.FeeGrowthGlobalX.Clone()
			t.FeeGrowthOutsideY = pool.FeeGrowthGlobalY.Clone()
			t.SecondsOutside = o.now
		}
	}

	if wasInitialized != t.Initialized() {
		if err := o.flipTick(pool, index); err != nil {
			return err
		}
	}
	return o.putTick(t)
}

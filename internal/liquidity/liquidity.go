// Package liquidity converts between deposited amounts and liquidity units for a
// sqrt-price range.
package liquidity

import (
	"fmt"

	"github.com/holiman/uint256"

	"liquidityCore/internal/fixedpoint"
)

// Range is a sqrt-price interval together with the current pool sqrt price.
type Range struct {
	Current *uint256.Int
	Low     *uint256.Int
	High    *uint256.Int
}

func (r Range) validate() error {
	if r.Current == nil || r.Low == nil || r.High == nil {
		return fixedpoint.ErrInvalidInput
	}
	if r.Low.IsZero() || !r.Low.Lt(r.High) {
		return fmt.Errorf("range %s..%s: %w", r.Low.Dec(), r.High.Dec(), fixedpoint.ErrInvalidInput)
	}
	return nil
}

func (r Range) below() bool { return !r.Current.Gt(r.Low) }
func (r Range) above() bool { return !r.Current.Lt(r.High) }

// FromAmounts sizes the liquidity backed by amountX and amountY over r. Only
// token X is active below the range and only token Y above it; inside the range
// the scarcer side limits the result.
func FromAmounts(amountX, amountY *uint256.Int, r Range) (*uint256.Int, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	width := new(uint256.Int).Sub(r.High, r.Low)

	scaled, err := fixedpoint.Mul(amountX, r.High)
	if err != nil {
		return nil, fmt.Errorf("liquidity x: %w", err)
	}
	lx, err := fixedpoint.Div(scaled, width)
	if err != nil {
		return nil, fmt.Errorf("liquidity x: %w", err)
	}
	ly, err := fixedpoint.Div(amountY, width)
	if err != nil {
		return nil, fmt.Errorf("liquidity y: %w", err)
	}

	switch {
	case r.below():
		return lx, nil
	case r.above():
		return ly, nil
	default:
		return fixedpoint.Min(lx, ly), nil
	}
}

// ToAmounts returns the token amounts represented by liquidity over r.
func ToAmounts(liquidity *uint256.Int, r Range) (*uint256.Int, *uint256.Int, error) {
	if err := r.validate(); err != nil {
		return nil, nil, err
	}
	width := new(uint256.Int).Sub(r.High, r.Low)

	amountX := new(uint256.Int)
	amountY := new(uint256.Int)

	if !r.above() {
		scaled, err := fixedpoint.Mul(liquidity, width)
		if err != nil {
			return nil, nil, fmt.Errorf("amount x: %w", err)
		}
		if amountX, err = fixedpoint.Div(scaled, r.High); err != nil {
			return nil, nil, fmt.Errorf("amount x: %w", err)
		}
	}
	if !r.below() {
		var err error
		if amountY, err = fixedpoint.Mul(liquidity, width); err != nil {
			return nil, nil, fmt.Errorf("amount y: %w", err)
		}
	}
	return amountX, amountY, nil
}

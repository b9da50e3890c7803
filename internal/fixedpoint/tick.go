package fixedpoint

import (
	"github.com/holiman/uint256"
)

const (
	// BaseRate is 1.0001 at Precision, the per-tick growth of the linear approximation.
	BaseRate uint64 = 1_000_100
	// LinearMaxTick bounds the linear approximation.
	LinearMaxTick int32 = 255

	// MaxTick bounds the geometric formula. Beyond it adjacent ticks collapse onto
	// the same 6-digit sqrt price.
	MaxTick int32 = 60_000
	MinTick int32 = -MaxTick
)

// sqrt(1.0001) at 18 digits. Powers are taken at this scale and truncated to
// Precision once, so rounding does not compound across squarings.
var (
	wideScale        = uint256.NewInt(1_000_000_000_000_000_000)
	wideToPrecision  = uint256.NewInt(1_000_000_000_000)
	wideSqrtBaseRate = uint256.NewInt(1_000_049_998_750_062_496)
)

// TickToSqrtPrice returns sqrt(1.0001)^tick at Precision. This is the canonical
// tick formula used for position ranges.
func TickToSqrtPrice(tick int32) (*uint256.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrInvalidInput
	}

	result := wideScale.Clone()
	base := wideSqrtBaseRate.Clone()
	for n := absTick(tick); n > 0; n >>= 1 {
		if n&1 == 1 {
			result.Mul(result, base)
			result.Div(result, wideScale)
		}
		if n > 1 {
			base.Mul(base, base)
			base.Div(base, wideScale)
		}
	}

	if tick < 0 {
		recip := new(uint256.Int).Mul(wideScale, wideScale)
		result = recip.Div(recip, result)
	}
	return result.Div(result, wideToPrecision), nil
}

// SqrtPriceToTick returns the greatest tick whose sqrt price does not exceed sqrtPrice.
func SqrtPriceToTick(sqrtPrice *uint256.Int) (int32, error) {
	if sqrtPrice == nil || sqrtPrice.IsZero() {
		return 0, ErrInvalidInput
	}
	lowest, err := TickToSqrtPrice(MinTick)
	if err != nil {
		return 0, err
	}
	if sqrtPrice.Lt(lowest) {
		return 0, ErrInvalidInput
	}

	lo, hi := MinTick, MaxTick
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		price, err := TickToSqrtPrice(mid)
		if err != nil {
			return 0, err
		}
		if price.Gt(sqrtPrice) {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return lo, nil
}

// LinearTickToSqrtPrice approximates 1.0001^tick linearly: BaseRate*tick for
// positive ticks and Precision/(BaseRate*|tick|) for negative ones.
func LinearTickToSqrtPrice(tick int32) (*uint256.Int, error) {
	if tick > LinearMaxTick || tick < -LinearMaxTick {
		return nil, ErrInvalidInput
	}
	switch {
	case tick > 0:
		return uint256.NewInt(BaseRate * uint64(tick)), nil
	case tick < 0:
		return Div(precision, uint256.NewInt(BaseRate*uint64(absTick(tick))))
	default:
		return precision.Clone(), nil
	}
}

// LinearSqrtPriceToTick inverts LinearTickToSqrtPrice.
func LinearSqrtPriceToTick(sqrtPrice *uint256.Int) (int32, error) {
	if sqrtPrice == nil || sqrtPrice.IsZero() {
		return 0, ErrInvalidInput
	}
	if !Fits(sqrtPrice) {
		return 0, ErrOverflow
	}

	rate := uint256.NewInt(BaseRate)
	var tick uint64
	negative := false
	switch {
	case !sqrtPrice.Lt(rate):
		tick = new(uint256.Int).Div(sqrtPrice, rate).Uint64()
	case sqrtPrice.Lt(precision):
		// |tick| = Precision^2 / (BaseRate * sqrtPrice)
		num := new(uint256.Int).Mul(precision, precision)
		den := new(uint256.Int).Mul(rate, sqrtPrice)
		tick = num.Div(num, den).Uint64()
		negative = true
	}

	if tick > uint64(LinearMaxTick) {
		return 0, ErrInvalidInput
	}
	if negative {
		return -int32(tick), nil
	}
	return int32(tick), nil
}

func absTick(tick int32) uint32 {
	if tick < 0 {
		return uint32(-int64(tick))
	}
	return uint32(tick)
}

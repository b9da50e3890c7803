// Package fee computes the volatility-driven swap fee rate.
package fee

import (
	"errors"

	"github.com/holiman/uint256"

	"liquidityCore/internal/fixedpoint"
	"liquidityCore/internal/model"
)

// Fee rates are fractions of fixed-point precision.
const (
	MinFee uint64 = 100
	MaxFee uint64 = 10_000

	VolatilityMultiplier uint64 = 10

	// ProtocolFeeDivisor is the share of each swap fee kept by the protocol
	// while the protocol fee switch is on.
	ProtocolFeeDivisor uint64 = 10
)

// ErrNoSample is returned when the pool has no oracle sample yet.
var ErrNoSample = errors.New("no oracle sample")

// Clamp bounds rate to [MinFee, MaxFee].
func Clamp(rate uint64) uint64 {
	if rate < MinFee {
		return MinFee
	}
	if rate > MaxFee {
		return MaxFee
	}
	return rate
}

// Dynamic returns baseFee raised by the distance between the oracle average and
// the current sqrt price, per unit of elapsed time. When no time has passed since
// the sample the volatility term is zero.
func Dynamic(baseFee uint64, sqrtPrice *uint256.Int, sample *model.OracleSample, now uint64) (uint64, error) {
	if sample == nil {
		return 0, ErrNoSample
	}
	if baseFee >= MaxFee {
		return MaxFee, nil
	}
	if now <= sample.Timestamp || sample.PriceAverage.IsZero() {
		return Clamp(baseFee), nil
	}
	elapsed := uint256.NewInt(now - sample.Timestamp)

	diff := fixedpoint.AbsDiff(sample.PriceAverage, sqrtPrice)
	num, overflow := new(uint256.Int).MulOverflow(diff, uint256.NewInt(fixedpoint.Precision))
	if overflow {
		return MaxFee, nil
	}
	den, overflow := new(uint256.Int).MulOverflow(sample.PriceAverage, elapsed)
	if overflow {
		// an average this large makes the volatility term vanish
		return Clamp(baseFee), nil
	}
	volatility := num.Div(num, den)

	// anything past MaxFee clamps, so saturate instead of overflowing
	if !volatility.IsUint64() || volatility.Uint64() > MaxFee {
		return MaxFee, nil
	}
	return Clamp(baseFee + volatility.Uint64()*VolatilityMultiplier), nil
}

// ProtocolShare returns the part of feeAmount owed to the protocol.
func ProtocolShare(feeAmount *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(feeAmount, uint256.NewInt(ProtocolFeeDivisor))
}

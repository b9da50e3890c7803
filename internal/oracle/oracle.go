// Package oracle tracks an exponential moving average of a pool's sqrt price.
package oracle

import (
	"github.com/holiman/uint256"

	"liquidityCore/internal/fixedpoint"
	"liquidityCore/internal/model"
)

// The newest price carries Weight/WeightBase of the average.
const (
	Weight     uint64 = 5
	WeightBase uint64 = 100
)

// Seed starts a sample at price.
func Seed(poolID uint64, price *uint256.Int, now uint64) model.OracleSample {
	return model.OracleSample{
		PoolID:          poolID,
		PriceCumulative: new(uint256.Int),
		PriceAverage:    price.Clone(),
		Timestamp:       now,
	}
}

// Advance folds price into sample at now. The average is a fixed-weight filter,
// independent of elapsed time; only the cumulative accumulator is time-weighted.
// A clock that has not moved (or moved backwards) adds nothing to the cumulative.
func Advance(sample model.OracleSample, price *uint256.Int, now uint64) (model.OracleSample, error) {
	var elapsed uint64
	if now > sample.Timestamp {
		elapsed = now - sample.Timestamp
	}

	weighted, overflow := new(uint256.Int).MulOverflow(price, uint256.NewInt(elapsed))
	if overflow {
		return model.OracleSample{}, fixedpoint.ErrOverflow
	}
	cumulative, overflow := new(uint256.Int).AddOverflow(sample.PriceCumulative, weighted)
	if overflow {
		return model.OracleSample{}, fixedpoint.ErrOverflow
	}

	average := new(uint256.Int).Mul(sample.PriceAverage, uint256.NewInt(WeightBase-Weight))
	average.Add(average, new(uint256.Int).Mul(price, uint256.NewInt(Weight)))
	average.Div(average, uint256.NewInt(WeightBase))

	return model.OracleSample{
		PoolID:          sample.PoolID,
		PriceCumulative: cumulative,
		PriceAverage:    average,
		Timestamp:       now,
	}, nil
}

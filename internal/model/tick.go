package model

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Tick holds the liquidity referencing one tick boundary of a pool.
type Tick struct {
	PoolID            uint64       `json:"pool_id"`
	Index             int32        `json:"index"`
	LiquidityNet      *big.Int     `json:"liquidity_net"`
	LiquidityGross    *uint256.Int `json:"liquidity_gross"`
	FeeGrowthOutsideX *uint256.Int `json:"fee_growth_outside_x"`
	FeeGrowthOutsideY *uint256.Int `json:"fee_growth_outside_y"`
	SecondsOutside    uint64       `json:"seconds_outside"`
}

// NewTick returns an uninitialized tick.
func NewTick(poolID uint64, index int32) *Tick {
	return &Tick{
		PoolID:            poolID,
		Index:             index,
		LiquidityNet:      new(big.Int),
		LiquidityGross:    new(uint256.Int),
		FeeGrowthOutsideX: new(uint256.Int),
		FeeGrowthOutsideY: new(uint256.Int),
	}
}

// Initialized reports whether any position references the tick.
func (t *Tick) Initialized() bool {
	return t.LiquidityGross != nil && !t.LiquidityGross.IsZero()
}

// TickBitmapWord packs the initialized state of 256 consecutive compressed ticks.
type TickBitmapWord struct {
	PoolID    uint64       `json:"pool_id"`
	WordIndex int16        `json:"word_index"`
	Bits      *uint256.Int `json:"bits"`
}

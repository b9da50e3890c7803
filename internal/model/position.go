package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Position is a liquidity deposit over a tick range of one pool.
type Position struct {
	ID        uint64         `json:"id"`
	Owner     common.Address `json:"owner"`
	PoolID    uint64         `json:"pool_id"`
	LowerTick int32          `json:"lower_tick"`
	UpperTick int32          `json:"upper_tick"`
	Liquidity *uint256.Int   `json:"liquidity"`

	TokensOwedX      *uint256.Int `json:"tokens_owed_x"`
	TokensOwedY      *uint256.Int `json:"tokens_owed_y"`
	FeeGrowthInsideX *uint256.Int `json:"fee_growth_inside_x"`
	FeeGrowthInsideY *uint256.Int `json:"fee_growth_inside_y"`
}

// Clone returns a deep copy.
func (p *Position) Clone() *Position {
	c := *p
	c.Liquidity = cloneInt(p.Liquidity)
	c.TokensOwedX = cloneInt(p.TokensOwedX)
	c.TokensOwedY = cloneInt(p.TokensOwedY)
	c.FeeGrowthInsideX = cloneInt(p.FeeGrowthInsideX)
	c.FeeGrowthInsideY = cloneInt(p.FeeGrowthInsideY)
	return &c
}

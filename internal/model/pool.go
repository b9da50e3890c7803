package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Pool is the persisted state of one liquidity pool.
type Pool struct {
	ID          uint64         `json:"id"`
	TokenX      common.Address `json:"token_x"`
	TokenY      common.Address `json:"token_y"`
	ReserveX    *uint256.Int   `json:"reserve_x"`
	ReserveY    *uint256.Int   `json:"reserve_y"`
	FeeRate     uint64         `json:"fee_rate"`
	TotalShares *uint256.Int   `json:"total_shares"`
	SqrtPrice   *uint256.Int   `json:"sqrt_price"`
	TickSpacing int32          `json:"tick_spacing"`
	LastUpdated uint64         `json:"last_updated"`

	// Swap fees per unit of liquidity, scaled by 1e18.
	FeeGrowthGlobalX *uint256.Int `json:"fee_growth_global_x"`
	FeeGrowthGlobalY *uint256.Int `json:"fee_growth_global_y"`
	ProtocolFeesX    *uint256.Int `json:"protocol_fees_x"`
	ProtocolFeesY    *uint256.Int `json:"protocol_fees_y"`

	// LP fees booked as growth and not collected yet. Together with the
	// protocol fees they are held in the reserves but belong to no share.
	UncollectedFeesX *uint256.Int `json:"uncollected_fees_x"`
	UncollectedFeesY *uint256.Int `json:"uncollected_fees_y"`
}

// NewPool returns a pool with every amount field set to zero.
func NewPool() *Pool {
	return &Pool{
		ReserveX:         new(uint256.Int),
		ReserveY:         new(uint256.Int),
		TotalShares:      new(uint256.Int),
		SqrtPrice:        new(uint256.Int),
		FeeGrowthGlobalX: new(uint256.Int),
		FeeGrowthGlobalY: new(uint256.Int),
		ProtocolFeesX:    new(uint256.Int),
		ProtocolFeesY:    new(uint256.Int),
		UncollectedFeesX: new(uint256.Int),
		UncollectedFeesY: new(uint256.Int),
	}
}

// Clone returns a deep copy.
func (p *Pool) Clone() *Pool {
	c := *p
	c.ReserveX = cloneInt(p.ReserveX)
	c.ReserveY = cloneInt(p.ReserveY)
	c.TotalShares = cloneInt(p.TotalShares)
	c.SqrtPrice = cloneInt(p.SqrtPrice)
	c.FeeGrowthGlobalX = cloneInt(p.FeeGrowthGlobalX)
	c.FeeGrowthGlobalY = cloneInt(p.FeeGrowthGlobalY)
	c.ProtocolFeesX = cloneInt(p.ProtocolFeesX)
	c.ProtocolFeesY = cloneInt(p.ProtocolFeesY)
	c.UncollectedFeesX = cloneInt(p.UncollectedFeesX)
	c.UncollectedFeesY = cloneInt(p.UncollectedFeesY)
	return &c
}

// HasToken reports whether token is one of the pool's two assets.
func (p *Pool) HasToken(token common.Address) bool {
	return token == p.TokenX || token == p.TokenY
}

// cloneInt copies v, treating nil as zero so decoded records never carry nil amounts.
func cloneInt(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}

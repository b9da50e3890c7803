package amm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityCore/internal/fixedpoint"
	"liquidityCore/internal/liquidity"
	"liquidityCore/internal/model"
)

// FeeGrowthScale scales the per-liquidity fee growth accumulators.
const FeeGrowthScale uint64 = 1_000_000_000_000_000_000

var feeGrowthScale = uint256.NewInt(FeeGrowthScale)

// CreatePosition deposits amountX and amountY into poolID over [lower, upper]
// on behalf of caller and returns the new position id. The pool keeps the full
// deposit; the position is sized by the scarcer side.
func (e *Engine) CreatePosition(
	ctx context.Context,
	caller common.Address,
	poolID uint64,
	amountX *uint256.Int,
	amountY *uint256.Int,
	lower int32,
	upper int32,
) (uint64, error) {
	var positionID uint64
	err := e.exec(ctx, "create_position", caller, func(o *op) error {
		if err := o.requireActive(); err != nil {
			return err
		}
		pool, err := o.requirePool(poolID)
		if err != nil {
			return err
		}
		if amountX == nil || amountY == nil {
			return fmt.Errorf("%w: missing deposit amount", ErrInvalidAmount)
		}
		if err := validateRange(lower, upper, pool.TickSpacing); err != nil {
			return err
		}

		r, err := priceRange(pool, lower, upper)
		if err != nil {
			return err
		}
		liq, err := liquidity.FromAmounts(amountX, amountY, r)
		if err != nil {
			return err
		}
		if liq.Lt(uint256.NewInt(MinLiquidity)) {
			return fmt.Errorf("%w: liquidity %s below minimum", ErrInsufficientLiquidity, liq.Dec())
		}

		if pool.ReserveX, err = fixedpoint.Add(pool.ReserveX, amountX); err != nil {
			return err
		}
		if pool.ReserveY, err = fixedpoint.Add(pool.ReserveY, amountY); err != nil {
			return err
		}
		if pool.TotalShares, err = fixedpoint.Add(pool.TotalShares, liq); err != nil {
			return err
		}
		pool.LastUpdated = o.now

		counters, err := o.counters()
		if err != nil {
			return err
		}
		counters.LastPositionID++
		pos := &model.Position{
			ID:               counters.LastPositionID,
			Owner:            caller,
			PoolID:           poolID,
			LowerTick:        lower,
			UpperTick:        upper,
			Liquidity:        liq,
			TokensOwedX:      new(uint256.Int),
			TokensOwedY:      new(uint256.Int),
			FeeGrowthInsideX: pool.FeeGrowthGlobalX.Clone(),
			FeeGrowthInsideY: pool.FeeGrowthGlobalY.Clone(),
		}

		if err := o.updateTick(pool, lower, liq, false, false); err != nil {
			return err
		}
		if err := o.updateTick(pool, upper, liq, true, false); err != nil {
			return err
		}
		if err := o.putCounters(counters); err != nil {
			return err
		}
		if err := o.putPool(pool); err != nil {
			return err
		}
		if err := o.putPosition(pos); err != nil {
			return err
		}

		o.emit(model.EventMint, poolID, pos.ID, model.MintEventData{
			Owner:     caller.Hex(),
			TickLower: lower,
			TickUpper: upper,
			Amount:    liq.Dec(),
			Amount0:   amountX.Dec(),
			Amount1:   amountY.Dec(),
		})
		positionID = pos.ID
		return nil
	})
	return positionID, err
}

// DecreaseLiquidity withdraws liquidity from a position and returns the token
// amounts released from the pool. Every share owns the same slice of each
// reserve, net of the fees still owed to the protocol and to liquidity
// providers, so the payout follows the aggregate curve that swaps trade on.
// Withdrawals stay open during a shutdown.
func (e *Engine) DecreaseLiquidity(
	ctx context.Context,
	caller common.Address,
	positionID uint64,
	amount *uint256.Int,
) (*uint256.Int, *uint256.Int, error) {
	var outX, outY *uint256.Int
	err := e.exec(ctx, "decrease_liquidity", caller, func(o *op) error {
		pos, err := o.requireOwnedPosition(positionID)
		if err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return fmt.Errorf("%w: zero liquidity", ErrInvalidAmount)
		}
		if amount.Gt(pos.Liquidity) {
			return fmt.Errorf("%w: cannot remove %s of %s", ErrInvalidAmount, amount.Dec(), pos.Liquidity.Dec())
		}
		remaining := new(uint256.Int).Sub(pos.Liquidity, amount)
		if !remaining.IsZero() && remaining.Lt(uint256.NewInt(MinLiquidity)) {
			return fmt.Errorf("%w: remaining liquidity %s below minimum", ErrInsufficientLiquidity, remaining.Dec())
		}

		pool, err := o.requirePool(pos.PoolID)
		if err != nil {
			return err
		}
		if err := accrue(pool, pos); err != nil {
			return err
		}

		if pool.TotalShares.Lt(amount) {
			return fmt.Errorf("pool %d shares below position liquidity", pool.ID)
		}
		amountX, err := shareOf(principal(pool.ReserveX, pool.ProtocolFeesX, pool.UncollectedFeesX), amount, pool.TotalShares)
		if err != nil {
			return err
		}
		amountY, err := shareOf(principal(pool.ReserveY, pool.ProtocolFeesY, pool.UncollectedFeesY), amount, pool.TotalShares)
		if err != nil {
			return err
		}

		pool.ReserveX = new(uint256.Int).Sub(pool.ReserveX, amountX)
		pool.ReserveY = new(uint256.Int).Sub(pool.ReserveY, amountY)
		pool.TotalShares = new(uint256.Int).Sub(pool.TotalShares, amount)
		pool.LastUpdated = o.now
		pos.Liquidity = remaining

		if err := o.updateTick(pool, pos.LowerTick, amount, false, true); err != nil {
			return err
		}
		if err := o.updateTick(pool, pos.UpperTick, amount, true, true); err != nil {
			return err
		}
		if err := o.putPool(pool); err != nil {
			return err
		}
		if err := o.putPosition(pos); err != nil {
			return err
		}

		o.emit(model.EventBurn, pool.ID, pos.ID, model.BurnEventData{
			Owner:     caller.Hex(),
			TickLower: pos.LowerTick,
			TickUpper: pos.UpperTick,
			Amount:    amount.Dec(),
			Amount0:   amountX.Dec(),
			Amount1:   amountY.Dec(),
		})
		outX, outY = amountX, amountY
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outX, outY, nil
}

// CollectFees settles the fees a position has earned, zeroes them and returns
// the payout. The payout leaves the pool reserves.
func (e *Engine) CollectFees(ctx context.Context, caller common.Address, positionID uint64) (*uint256.Int, *uint256.Int, error) {
	var outX, outY *uint256.Int
	err := e.exec(ctx, "collect_fees", caller, func(o *op) error {
		pos, err := o.requireOwnedPosition(positionID)
		if err != nil {
			return err
		}
		pool, err := o.requirePool(pos.PoolID)
		if err != nil {
			return err
		}
		if err := accrue(pool, pos); err != nil {
			return err
		}

		owedX, owedY := pos.TokensOwedX, pos.TokensOwedY
		if owedX.Gt(pool.ReserveX) || owedY.Gt(pool.ReserveY) {
			return fmt.Errorf("%w: reserves cannot cover owed fees", ErrInsufficientLiquidity)
		}
		pool.ReserveX = new(uint256.Int).Sub(pool.ReserveX, owedX)
		pool.ReserveY = new(uint256.Int).Sub(pool.ReserveY, owedY)
		pool.UncollectedFeesX = saturatingSub(pool.UncollectedFeesX, owedX)
		pool.UncollectedFeesY = saturatingSub(pool.UncollectedFeesY, owedY)
		pos.TokensOwedX = new(uint256.Int)
		pos.TokensOwedY = new(uint256.Int)

		if err := o.putPool(pool); err != nil {
			return err
		}
		if err := o.putPosition(pos); err != nil {
			return err
		}

		o.emit(model.EventCollect, pool.ID, pos.ID, model.CollectEventData{
			Owner:   caller.Hex(),
			Amount0: owedX.Dec(),
			Amount1: owedY.Dec(),
		})
		outX, outY = owedX, owedY
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outX, outY, nil
}

// Position returns the position record. Owed fees are as of the last settlement.
func (e *Engine) Position(ctx context.Context, positionID uint64) (*model.Position, error) {
	var pos *model.Position
	err := e.view(ctx, func(o *op) error {
		p, ok, err := o.position(positionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("position %d: %w", positionID, ErrNotFound)
		}
		pos = p
		return nil
	})
	return pos, err
}

func (o *op) requirePool(poolID uint64) (*model.Pool, error) {
	pool, ok, err := o.pool(poolID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: pool %d does not exist", ErrInvalidPool, poolID)
	}
	return pool, nil
}

func (o *op) requireOwnedPosition(positionID uint64) (*model.Position, error) {
	pos, ok, err := o.position(positionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: position %d does not exist", ErrInvalidPosition, positionID)
	}
	if pos.Owner != o.caller {
		return nil, fmt.Errorf("%w: position %d is not owned by %s", ErrNotAuthorized, positionID, o.caller.Hex())
	}
	return pos, nil
}

func priceRange(pool *model.Pool, lower, upper int32) (liquidity.Range, error) {
	low, err := fixedpoint.TickToSqrtPrice(lower)
	if err != nil {
		return liquidity.Range{}, err
	}
	high, err := fixedpoint.TickToSqrtPrice(upper)
	if err != nil {
		return liquidity.Range{}, err
	}
	return liquidity.Range{Current: pool.SqrtPrice, Low: low, High: high}, nil
}

// accrue moves the fees earned since the position's checkpoint into its owed
// amounts.
func accrue(pool *model.Pool, pos *model.Position) error {
	var err error
	if pos.TokensOwedX, err = accrueSide(pos.Liquidity, pool.FeeGrowthGlobalX, pos.FeeGrowthInsideX, pos.TokensOwedX); err != nil {
		return err
	}
	if pos.TokensOwedY, err = accrueSide(pos.Liquidity, pool.FeeGrowthGlobalY, pos.FeeGrowthInsideY, pos.TokensOwedY); err != nil {
		return err
	}
	pos.FeeGrowthInsideX = pool.FeeGrowthGlobalX.Clone()
	pos.FeeGrowthInsideY = pool.FeeGrowthGlobalY.Clone()
	return nil
}

func accrueSide(liq, global, checkpoint, owed *uint256.Int) (*uint256.Int, error) {
	delta, err := fixedpoint.Sub(global, checkpoint)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() || liq.IsZero() {
		return owed, nil
	}
	earned, err := fixedpoint.MulDiv(liq, delta, feeGrowthScale)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(owed, earned)
}

// principal is the part of a reserve that backs liquidity shares.
func principal(reserve, protocolFees, uncollected *uint256.Int) *uint256.Int {
	return saturatingSub(saturatingSub(reserve, protocolFees), uncollected)
}

// shareOf returns amount/total of value, rounded down.
func shareOf(value, amount, total *uint256.Int) (*uint256.Int, error) {
	if amount.Eq(total) {
		return value.Clone(), nil
	}
	return fixedpoint.MulDiv(value, amount, total)
}

func saturatingSub(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(a, b)
}

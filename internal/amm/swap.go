package amm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityCore/internal/fee"
	"liquidityCore/internal/fixedpoint"
	"liquidityCore/internal/model"
	"liquidityCore/internal/oracle"
)

// Swap sells amountIn of tokenIn to poolID and returns the amount of the other
// token bought. The trade is priced on the constant-product curve of the pool's
// aggregate reserves; the pool sqrt price does not move and no tick is crossed.
// A trade too small to buy anything after the fee, or one against an empty
// reserve, fails with ErrInsufficientLiquidity.
func (e *Engine) Swap(
	ctx context.Context,
	caller common.Address,
	poolID uint64,
	tokenIn common.Address,
	amountIn *uint256.Int,
	minAmountOut *uint256.Int,
) (*uint256.Int, error) {
	var amountOut *uint256.Int
	err := e.exec(ctx, "swap", caller, func(o *op) error {
		if err := o.requireActive(); err != nil {
			return err
		}
		pool, err := o.requirePool(poolID)
		if err != nil {
			return err
		}
		if !pool.HasToken(tokenIn) {
			return fmt.Errorf("%w: token %s not in pool %d", ErrInvalidPool, tokenIn.Hex(), poolID)
		}
		if amountIn == nil || amountIn.IsZero() {
			return fmt.Errorf("%w: zero input", ErrInvalidAmount)
		}
		if minAmountOut == nil {
			minAmountOut = new(uint256.Int)
		}
		xForY := tokenIn == pool.TokenX

		sample, ok, err := o.oracleSample(poolID)
		if err != nil {
			return err
		}
		if !ok {
			seeded := oracle.Seed(poolID, pool.SqrtPrice, o.now)
			sample = &seeded
		}
		feeRate, err := fee.Dynamic(pool.FeeRate, pool.SqrtPrice, sample, o.now)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPool, err)
		}

		feeAmount, err := fixedpoint.MulDiv(amountIn, uint256.NewInt(feeRate), fixedpoint.One())
		if err != nil {
			return err
		}
		afterFee := new(uint256.Int).Sub(amountIn, feeAmount)

		reserveIn, reserveOut := pool.ReserveX, pool.ReserveY
		if !xForY {
			reserveIn, reserveOut = pool.ReserveY, pool.ReserveX
		}
		out := new(uint256.Int)
		if !afterFee.IsZero() && !reserveOut.IsZero() {
			denominator, err := fixedpoint.Add(reserveIn, afterFee)
			if err != nil {
				return err
			}
			if out, err = fixedpoint.MulDiv(afterFee, reserveOut, denominator); err != nil {
				return err
			}
		}
		if out.IsZero() {
			return fmt.Errorf("%w: swap of %s yields nothing", ErrInsufficientLiquidity, amountIn.Dec())
		}
		if out.Lt(minAmountOut) {
			return fmt.Errorf("%w: out %s below minimum %s", ErrSlippageExceeded, out.Dec(), minAmountOut.Dec())
		}

		newIn, err := fixedpoint.Add(reserveIn, amountIn)
		if err != nil {
			return err
		}
		newOut := new(uint256.Int).Sub(reserveOut, out)
		if xForY {
			pool.ReserveX, pool.ReserveY = newIn, newOut
		} else {
			pool.ReserveY, pool.ReserveX = newIn, newOut
		}

		flags, err := o.flags()
		if err != nil {
			return err
		}
		if err := chargeFee(pool, feeAmount, xForY, flags.ProtocolFee); err != nil {
			return err
		}
		pool.FeeRate = feeRate
		pool.LastUpdated = o.now

		next, err := oracle.Advance(*sample, pool.SqrtPrice, o.now)
		if err != nil {
			return err
		}
		if err := o.putOracleSample(&next); err != nil {
			return err
		}
		if err := o.putPool(pool); err != nil {
			return err
		}

		o.emit(model.EventSwap, poolID, 0, model.SwapEventData{
			Sender:    caller.Hex(),
			TokenIn:   tokenIn.Hex(),
			XForY:     xForY,
			AmountIn:  amountIn.Dec(),
			AmountOut: out.Dec(),
			FeeRate:   feeRate,
			FeeAmount: feeAmount.Dec(),
			ReserveX:  pool.ReserveX.Dec(),
			ReserveY:  pool.ReserveY.Dec(),
		})
		amountOut = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amountOut, nil
}

// chargeFee books feeAmount of the input token: the protocol share when the
// protocol fee is on, the rest as fee growth for liquidity providers. Fees stay
// in the reserves until collected.
func chargeFee(pool *model.Pool, feeAmount *uint256.Int, xForY, protocolFee bool) error {
	if feeAmount.IsZero() {
		return nil
	}

	lpFee := feeAmount.Clone()
	if protocolFee {
		share := fee.ProtocolShare(feeAmount)
		lpFee.Sub(lpFee, share)

		var err error
		if xForY {
			pool.ProtocolFeesX, err = fixedpoint.Add(pool.ProtocolFeesX, share)
		} else {
			pool.ProtocolFeesY, err = fixedpoint.Add(pool.ProtocolFeesY, share)
		}
		if err != nil {
			return err
		}
	}

	// with no liquidity outstanding the fee is left to the reserves
	if pool.TotalShares.IsZero() || lpFee.IsZero() {
		return nil
	}
	growth, err := fixedpoint.MulDiv(lpFee, feeGrowthScale, pool.TotalShares)
	if err != nil {
		return err
	}
	if xForY {
		if pool.FeeGrowthGlobalX, err = fixedpoint.Add(pool.FeeGrowthGlobalX, growth); err != nil {
			return err
		}
		pool.UncollectedFeesX, err = fixedpoint.Add(pool.UncollectedFeesX, lpFee)
	} else {
		if pool.FeeGrowthGlobalY, err = fixedpoint.Add(pool.FeeGrowthGlobalY, growth); err != nil {
			return err
		}
		pool.UncollectedFeesY, err = fixedpoint.Add(pool.UncollectedFeesY, lpFee)
	}
	return err
}

package replay

import (
	"context"
	"errors"
	"fmt"

	"liquidityCore/internal/amm"
)

// errMalformed marks lines that never reached the engine.
var errMalformed = errors.New("malformed line")

func malformed(err error) error {
	return fmt.Errorf("%w: %v", errMalformed, err)
}

func (r *Runner) apply(ctx context.Context, line int, op Op) (Receipt, error) {
	caller, err := ParseAddress("caller", op.Caller)
	if err != nil {
		return Receipt{}, malformed(err)
	}
	if op.Height > 0 && r.clock != nil {
		r.clock.Set(op.Height)
	}
	receipt := Receipt{Line: line, Op: op.Op, Height: op.Height}

	switch op.Op {
	case OpCreatePool:
		tokenX, err := ParseAddress("token_x", op.TokenX)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		tokenY, err := ParseAddress("token_y", op.TokenY)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		price, err := ParseAmount("sqrt_price", op.SqrtPrice, false)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		receipt.PoolID, err = r.engine.CreatePool(ctx, caller, tokenX, tokenY, price, op.TickSpacing)
		return receipt, err

	case OpCreatePosition:
		amountX, err := ParseAmount("amount_x", op.AmountX, true)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		amountY, err := ParseAmount("amount_y", op.AmountY, true)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		receipt.PoolID = op.PoolID
		receipt.PositionID, err = r.engine.CreatePosition(ctx, caller, op.PoolID, amountX, amountY, op.LowerTick, op.UpperTick)
		return receipt, err

	case OpDecreaseLiquidity:
		liq, err := ParseAmount("liquidity", op.Liquidity, false)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		x, y, err := r.engine.DecreaseLiquidity(ctx, caller, op.PositionID, liq)
		receipt.PositionID = op.PositionID
		receipt.Amount0, receipt.Amount1 = decimal(x), decimal(y)
		return receipt, err

	case OpCollectFees:
		x, y, err := r.engine.CollectFees(ctx, caller, op.PositionID)
		receipt.PositionID = op.PositionID
		receipt.Amount0, receipt.Amount1 = decimal(x), decimal(y)
		return receipt, err

	case OpCollectProtocolFees:
		x, y, err := r.engine.CollectProtocolFees(ctx, caller, op.PoolID)
		receipt.PoolID = op.PoolID
		receipt.Amount0, receipt.Amount1 = decimal(x), decimal(y)
		return receipt, err

	case OpSwap:
		tokenIn, err := ParseAddress("token_in", op.TokenIn)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		amountIn, err := ParseAmount("amount_in", op.AmountIn, false)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		minOut, err := ParseAmount("min_amount_out", op.MinAmountOut, true)
		if err != nil {
			return Receipt{}, malformed(err)
		}
		out, err := r.engine.Swap(ctx, caller, op.PoolID, tokenIn, amountIn, minOut)
		receipt.PoolID = op.PoolID
		receipt.AmountOut = decimal(out)
		return receipt, err

	case OpToggleShutdown:
		enabled, err := r.engine.ToggleEmergencyShutdown(ctx, caller)
		receipt.Enabled = &enabled
		return receipt, err

	case OpToggleProtocolFee:
		enabled, err := r.engine.ToggleProtocolFee(ctx, caller)
		receipt.Enabled = &enabled
		return receipt, err

	default:
		return Receipt{}, malformed(fmt.Errorf("unknown op %q", op.Op))
	}
}

// internal reports whether err came from the store or clock rather than from
// the engine rejecting the line.
func internal(err error) bool {
	return amm.CategoryOf(err) == amm.CategoryInternal && !errors.Is(err, errMalformed)
}

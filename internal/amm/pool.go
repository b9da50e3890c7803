package amm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"liquidityCore/internal/fee"
	"liquidityCore/internal/fixedpoint"
	"liquidityCore/internal/model"
)

// CreatePool registers a pool for tokenX/tokenY at initialSqrtPrice and returns
// its id. Ids start at 1 and are never reused.
func (e *Engine) CreatePool(
	ctx context.Context,
	caller common.Address,
	tokenX common.Address,
	tokenY common.Address,
	initialSqrtPrice *uint256.Int,
	tickSpacing int32,
) (uint64, error) {
	var poolID uint64
	err := e.exec(ctx, "create_pool", caller, func(o *op) error {
		if tokenX == tokenY {
			return fmt.Errorf("%w: identical tokens", ErrInvalidAmount)
		}
		if initialSqrtPrice == nil || initialSqrtPrice.Lt(fixedpoint.One()) || !fixedpoint.Fits(initialSqrtPrice) {
			return fmt.Errorf("%w: initial sqrt price", ErrInvalidAmount)
		}
		if tickSpacing <= 0 || tickSpacing > fixedpoint.MaxTick {
			return fmt.Errorf("%w: tick spacing %d", ErrInvalidAmount, tickSpacing)
		}

		counters, err := o.counters()
		if err != nil {
			return err
		}
		id := counters.LastPoolID + 1
		if _, exists, err := o.pool(id); err != nil {
			return err
		} else if exists {
			return fmt.Errorf("%w: %d", ErrPoolExists, id)
		}

		pool := model.NewPool()
		pool.ID = id
		pool.TokenX = tokenX
		pool.TokenY = tokenY
		pool.FeeRate = fee.MinFee
		pool.SqrtPrice = initialSqrtPrice.Clone()
		pool.TickSpacing = tickSpacing
		pool.LastUpdated = o.now

		counters.LastPoolID = id
		if err := o.putCounters(counters); err != nil {
			return err
		}
		if err := o.putPool(pool); err != nil {
			return err
		}

		o.emit(model.EventPoolCreated, id, 0, model.PoolCreatedEventData{
			TokenX:      tokenX.Hex(),
			TokenY:      tokenY.Hex(),
			SqrtPrice:   pool.SqrtPrice.Dec(),
			TickSpacing: tickSpacing,
			FeeRate:     pool.FeeRate,
		})
		poolID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("pool created",
		zap.Uint64("pool_id", poolID),
		zap.String("token_x", tokenX.Hex()),
		zap.String("token_y", tokenY.Hex()),
		zap.String("sqrt_price", initialSqrtPrice.Dec()),
		zap.Int32("tick_spacing", tickSpacing),
	)
	return poolID, nil
}

// Pool returns the pool record.
func (e *Engine) Pool(ctx context.Context, poolID uint64) (*model.Pool, error) {
	var pool *model.Pool
	err := e.view(ctx, func(o *op) error {
		p, ok, err := o.pool(poolID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("pool %d: %w", poolID, ErrNotFound)
		}
		pool = p
		return nil
	})
	return pool, err
}

// Tick returns the tick record at index, present only while some position
// references it.
func (e *Engine) Tick(ctx context.Context, poolID uint64, index int32) (*model.Tick, error) {
	var tick *model.Tick
	err := e.view(ctx, func(o *op) error {
		t, ok, err := o.tick(poolID, index)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("tick %d/%d: %w", poolID, index, ErrNotFound)
		}
		tick = t
		return nil
	})
	return tick, err
}

// TickInitialized reports whether the tick bitmap marks index as initialized.
// Ticks outside ±MaxTick are never initialized.
func (e *Engine) TickInitialized(ctx context.Context, poolID uint64, index int32) (bool, error) {
	var initialized bool
	err := e.view(ctx, func(o *op) error {
		pool, ok, err := o.pool(poolID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("pool %d: %w", poolID, ErrNotFound)
		}
		// the bitmap only covers spaced ticks within the price range
		if index < fixedpoint.MinTick || index > fixedpoint.MaxTick || index%pool.TickSpacing != 0 {
			return nil
		}
		initialized, err = o.tickInitialized(pool, index)
		return err
	})
	return initialized, err
}

// OraclePrice returns the moving average sqrt price of a pool. A pool has no
// average until its first swap.
func (e *Engine) OraclePrice(ctx context.Context, poolID uint64) (*uint256.Int, error) {
	sample, err := e.OracleSample(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return sample.PriceAverage, nil
}

// OracleSample returns the full oracle state of a pool.
func (e *Engine) OracleSample(ctx context.Context, poolID uint64) (*model.OracleSample, error) {
	var sample *model.OracleSample
	err := e.view(ctx, func(o *op) error {
		s, ok, err := o.oracleSample(poolID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("oracle %d: %w", poolID, ErrNotFound)
		}
		sample = s
		return nil
	})
	return sample, err
}

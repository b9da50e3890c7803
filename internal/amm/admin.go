package amm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"liquidityCore/internal/model"
)

// ToggleEmergencyShutdown flips the shutdown flag and returns its new value.
// While it is set no position can be created and no swap executed.
func (e *Engine) ToggleEmergencyShutdown(ctx context.Context, caller common.Address) (bool, error) {
	var enabled bool
	err := e.exec(ctx, "toggle_shutdown", caller, func(o *op) error {
		flags, err := o.ownerFlags()
		if err != nil {
			return err
		}
		flags.EmergencyShutdown = !flags.EmergencyShutdown
		enabled = flags.EmergencyShutdown
		o.emit(model.EventShutdownToggled, 0, 0, model.FlagEventData{Enabled: enabled})
		return o.putFlags(flags)
	})
	if err != nil {
		return false, err
	}
	e.logger.Warn("emergency shutdown toggled", zap.Bool("enabled", enabled))
	return enabled, nil
}

// ToggleProtocolFee flips the protocol fee switch and returns its new value.
func (e *Engine) ToggleProtocolFee(ctx context.Context, caller common.Address) (bool, error) {
	var enabled bool
	err := e.exec(ctx, "toggle_protocol_fee", caller, func(o *op) error {
		flags, err := o.ownerFlags()
		if err != nil {
			return err
		}
		flags.ProtocolFee = !flags.ProtocolFee
		enabled = flags.ProtocolFee
		o.emit(model.EventProtocolFeeToggled, 0, 0, model.FlagEventData{Enabled: enabled})
		return o.putFlags(flags)
	})
	if err != nil {
		return false, err
	}
	e.logger.Info("protocol fee toggled", zap.Bool("enabled", enabled))
	return enabled, nil
}

// CollectProtocolFees pays the accumulated protocol share of a pool to the owner.
func (e *Engine) CollectProtocolFees(ctx context.Context, caller common.Address, poolID uint64) (*uint256.Int, *uint256.Int, error) {
	var outX, outY *uint256.Int
	err := e.exec(ctx, "collect_protocol_fees", caller, func(o *op) error {
		if o.caller != o.owner {
			return fmt.Errorf("%w: %s is not the owner", ErrNotAuthorized, caller.Hex())
		}
		pool, err := o.requirePool(poolID)
		if err != nil {
			return err
		}
		if pool.ProtocolFeesX.Gt(pool.ReserveX) || pool.ProtocolFeesY.Gt(pool.ReserveY) {
			return fmt.Errorf("%w: reserves cannot cover protocol fees", ErrInsufficientLiquidity)
		}
		outX, outY = pool.ProtocolFeesX, pool.ProtocolFeesY
		pool.ReserveX = new(uint256.Int).Sub(pool.ReserveX, outX)
		pool.ReserveY = new(uint256.Int).Sub(pool.ReserveY, outY)
		pool.ProtocolFeesX = new(uint256.Int)
		pool.ProtocolFeesY = new(uint256.Int)

		o.emit(model.EventCollect, poolID, 0, model.CollectEventData{
			Owner:   caller.Hex(),
			Amount0: outX.Dec(),
			Amount1: outY.Dec(),
		})
		return o.putPool(pool)
	})
	if err != nil {
		return nil, nil, err
	}
	return outX, outY, nil
}

// Flags returns the global switches.
func (e *Engine) Flags(ctx context.Context) (model.Flags, error) {
	var flags model.Flags
	err := e.view(ctx, func(o *op) error {
		var err error
		flags, err = o.flags()
		return err
	})
	return flags, err
}

func (o *op) ownerFlags() (model.Flags, error) {
	if o.caller != o.owner {
		return model.Flags{}, fmt.Errorf("%w: %s is not the owner", ErrNotAuthorized, o.caller.Hex())
	}
	return o.flags()
}

func (o *op) requireActive() error {
	flags, err := o.flags()
	if err != nil {
		return err
	}
	if flags.EmergencyShutdown {
		return fmt.Errorf("%w: emergency shutdown", ErrNotAuthorized)
	}
	return nil
}

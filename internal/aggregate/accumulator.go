package aggregate

import (
	"encoding/json"
	"fmt"
	"math/big"

	"liquidityCore/internal/model"
)

// Accumulator holds aggregate values for a pool window.
type Accumulator struct {
	PoolID      uint64
	WindowStart uint64
	WindowEnd   uint64
	SwapCount   uint64
	VolumeX     *big.Int
	VolumeY     *big.Int
	FeeX        *big.Int
	FeeY        *big.Int
	ReserveX    *big.Int
	ReserveY    *big.Int
	LastHeight  uint64
}

func NewAccumulator(record model.EventRecord, windowStart, windowEnd uint64) *Accumulator {
	return &Accumulator{
		PoolID:      record.PoolID,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		VolumeX:     big.NewInt(0),
		VolumeY:     big.NewInt(0),
		FeeX:        big.NewInt(0),
		FeeY:        big.NewInt(0),
		ReserveX:    big.NewInt(0),
		ReserveY:    big.NewInt(0),
		LastHeight:  record.Height,
	}
}

// AddEvent folds a Swap event into the window. Other events are ignored.
func (a *Accumulator) AddEvent(record model.EventRecord) error {
	if record.EventName != model.EventSwap {
		return nil
	}

	var swap model.SwapEventData
	if err := json.Unmarshal(record.Decoded, &swap); err != nil {
		return fmt.Errorf("decode swap: %w", err)
	}
	return a.applySwap(record.Height, swap)
}

func (a *Accumulator) applySwap(height uint64, swap model.SwapEventData) error {
	amountIn, err := parseBigInt(swap.AmountIn)
	if err != nil {
		return err
	}
	amountOut, err := parseBigInt(swap.AmountOut)
	if err != nil {
		return err
	}
	fee, err := parseBigInt(swap.FeeAmount)
	if err != nil {
		return err
	}
	reserveX, err := parseBigInt(swap.ReserveX)
	if err != nil {
		return err
	}
	reserveY, err := parseBigInt(swap.ReserveY)
	if err != nil {
		return err
	}

	if swap.XForY {
		a.VolumeX.Add(a.VolumeX, amountIn)
		a.VolumeY.Add(a.VolumeY, amountOut)
		a.FeeX.Add(a.FeeX, fee)
	} else {
		a.VolumeY.Add(a.VolumeY, amountIn)
		a.VolumeX.Add(a.VolumeX, amountOut)
		a.FeeY.Add(a.FeeY, fee)
	}

	if height >= a.LastHeight {
		a.LastHeight = height
		a.ReserveX = reserveX
		a.ReserveY = reserveY
	}
	a.SwapCount++
	return nil
}

// Metrics renders the window.
func (a *Accumulator) Metrics(windowBlocks uint64) model.PoolWindowMetrics {
	feeRateX, feeRateY := computeFeeRates(a.FeeX, a.FeeY, a.ReserveX, a.ReserveY)
	return model.PoolWindowMetrics{
		PoolID:           a.PoolID,
		WindowSizeBlocks: windowBlocks,
		WindowStart:      a.WindowStart,
		WindowEnd:        a.WindowEnd,
		SwapCount:        a.SwapCount,
		VolumeX:          a.VolumeX.String(),
		VolumeY:          a.VolumeY.String(),
		FeeX:             a.FeeX.String(),
		FeeY:             a.FeeY.String(),
		ReserveX:         a.ReserveX.String(),
		ReserveY:         a.ReserveY.String(),
		FeeRateX:         feeRateX,
		FeeRateY:         feeRateY,
		LastHeight:       a.LastHeight,
	}
}

func parseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok || parsed.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %s", value)
	}
	return parsed, nil
}

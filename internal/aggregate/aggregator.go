// Package aggregate folds engine Swap events into per-pool block windows.
package aggregate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"liquidityCore/internal/model"
	"liquidityCore/internal/storage"
)

// Writer persists finished windows.
type Writer interface {
	UpsertWindowMetrics(ctx context.Context, metrics []model.PoolWindowMetrics) error
}

// Config controls aggregation behavior.
type Config struct {
	WindowBlocks  uint64
	BatchSize     int
	RecomputeFrom uint64
	StateStore    StateStore
}

// Aggregator aggregates engine events into pool window metrics.
type Aggregator struct {
	cfg          Config
	writer       Writer
	logger       *zap.Logger
	accumulators map[uint64]*Accumulator
}

func NewAggregator(cfg Config, writer Writer, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Aggregator{
		cfg:          cfg,
		writer:       writer,
		logger:       logger,
		accumulators: make(map[uint64]*Accumulator),
	}
}

// Stats summarizes a run.
type Stats struct {
	Total   int
	Windows int
	Skipped int
	Failed  int
}

// Run executes aggregation over an events JSONL file.
func (a *Aggregator) Run(ctx context.Context, inputPath string) (Stats, error) {
	var stats Stats
	if a.writer == nil {
		return stats, fmt.Errorf("writer is nil")
	}
	if a.cfg.WindowBlocks == 0 {
		return stats, fmt.Errorf("window blocks must be > 0")
	}
	if a.cfg.BatchSize <= 0 {
		a.cfg.BatchSize = 1000
	}

	startHeight, err := a.loadStartHeight(ctx)
	if err != nil {
		return stats, err
	}

	batch := make([]model.PoolWindowMetrics, 0, a.cfg.BatchSize)
	maxHeight := startHeight

	handle := func(record model.EventRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Total++
		if record.EventName != model.EventSwap || record.Height <= startHeight {
			stats.Skipped++
			return nil
		}

		start := windowStart(record.Height, a.cfg.WindowBlocks)
		acc := a.accumulators[record.PoolID]
		if acc == nil {
			acc = NewAccumulator(record, start, start+a.cfg.WindowBlocks)
			a.accumulators[record.PoolID] = acc
		} else if acc.WindowStart != start {
			batch = append(batch, acc.Metrics(a.cfg.WindowBlocks))
			acc = NewAccumulator(record, start, start+a.cfg.WindowBlocks)
			a.accumulators[record.PoolID] = acc
		}

		if err := acc.AddEvent(record); err != nil {
			stats.Failed++
			a.logger.Warn("aggregate event", zap.Error(err), zap.Uint64("pool_id", record.PoolID), zap.Uint64("height", record.Height))
			return nil
		}
		if record.Height > maxHeight {
			maxHeight = record.Height
		}

		if len(batch) >= a.cfg.BatchSize {
			if err := a.flush(ctx, batch); err != nil {
				return err
			}
			stats.Windows += len(batch)
			batch = batch[:0]

			if err := a.saveState(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	onError := func(line int, err error) {
		stats.Failed++
		a.logger.Warn("decode event", zap.Int("line", line), zap.Error(err))
	}

	if err := storage.ReadEvents(inputPath, handle, onError); err != nil {
		return stats, err
	}

	for _, acc := range a.accumulators {
		batch = append(batch, acc.Metrics(a.cfg.WindowBlocks))
	}
	a.accumulators = make(map[uint64]*Accumulator)

	if len(batch) > 0 {
		if err := a.flush(ctx, batch); err != nil {
			return stats, err
		}
		stats.Windows += len(batch)
	}

	a.cfg.RecomputeFrom = maxHeight
	if err := a.saveState(ctx); err != nil {
		return stats, err
	}

	a.logger.Info("aggregate complete",
		zap.Int("total", stats.Total),
		zap.Int("windows", stats.Windows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

func (a *Aggregator) loadStartHeight(ctx context.Context) (uint64, error) {
	if a.cfg.RecomputeFrom > 0 {
		return a.cfg.RecomputeFrom - 1, nil
	}
	if a.cfg.StateStore == nil {
		return 0, nil
	}
	last, ok, err := a.cfg.StateStore.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return last, nil
}

// saveState records the height below every still-open window, so a resumed
// run rebuilds those windows from scratch.
func (a *Aggregator) saveState(ctx context.Context) error {
	if a.cfg.StateStore == nil {
		return nil
	}

	if len(a.accumulators) == 0 {
		return a.cfg.StateStore.Save(ctx, a.cfg.RecomputeFrom)
	}

	safe := minOpenWindowStart(a.accumulators)
	if safe > 0 {
		safe = safe - 1
	}
	if safe == 0 {
		safe = a.cfg.RecomputeFrom
	}
	return a.cfg.StateStore.Save(ctx, safe)
}

func (a *Aggregator) flush(ctx context.Context, batch []model.PoolWindowMetrics) error {
	if err := a.writer.UpsertWindowMetrics(ctx, batch); err != nil {
		return fmt.Errorf("write windows: %w", err)
	}
	return nil
}

func windowStart(height uint64, windowBlocks uint64) uint64 {
	return height - (height % windowBlocks)
}

func minOpenWindowStart(acc map[uint64]*Accumulator) uint64 {
	var min uint64
	for _, entry := range acc {
		if entry == nil {
			continue
		}
		if min == 0 || entry.WindowStart < min {
			min = entry.WindowStart
		}
	}
	return min
}

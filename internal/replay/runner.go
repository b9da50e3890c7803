package replay

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"liquidityCore/internal/amm"
	"liquidityCore/internal/chain"
)

// Recorder receives receipts or failures.
type Recorder interface {
	Write(value interface{}) error
}

// RunConfig holds runtime settings for a replay.
type RunConfig struct {
	// Script names the input in checkpoints; a checkpoint of another script is ignored.
	Script            string
	CheckpointPath    string
	CheckpointEnabled bool
}

// Runner applies script lines to the engine in order.
type Runner struct {
	cfg        RunConfig
	engine     *amm.Engine
	clock      *chain.ManualClock
	receipts   Recorder
	failures   Recorder
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner. When clock is set, lines carrying a height move it
// before they are applied.
func NewRunner(cfg RunConfig, engine *amm.Engine, clock *chain.ManualClock, receipts, failures Recorder, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		engine:     engine,
		clock:      clock,
		receipts:   receipts,
		failures:   failures,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Stats summarises a run.
type Stats struct {
	Total   int
	Applied int
	Failed  int
	Skipped int
}

// Run reads the script from r. Rejected operations are recorded and the run
// continues; store or clock failures stop it.
func (r *Runner) Run(ctx context.Context, in io.Reader) (Stats, error) {
	var stats Stats
	if r.engine == nil {
		return stats, fmt.Errorf("engine is nil")
	}

	resumeAfter := 0
	cp, ok, err := r.checkpoint.Load()
	if err != nil {
		return stats, err
	}
	if ok && cp.Script == r.cfg.Script {
		resumeAfter = cp.LastAppliedLine
		r.logger.Info("resume from checkpoint", zap.Int("last_applied_line", resumeAfter))
	}

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if lineNo <= resumeAfter {
			stats.Skipped++
			continue
		}
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}
		stats.Total++

		op, err := ParseOp(line)
		if err != nil {
			stats.Failed++
			if err := r.fail(lineNo, "", malformed(err)); err != nil {
				return stats, err
			}
		} else if receipt, err := r.apply(ctx, lineNo, op); err != nil {
			if internal(err) {
				return stats, fmt.Errorf("line %d: %w", lineNo, err)
			}
			stats.Failed++
			if err := r.fail(lineNo, op.Op, err); err != nil {
				return stats, err
			}
		} else {
			stats.Applied++
			if r.receipts != nil {
				if err := r.receipts.Write(receipt); err != nil {
					return stats, fmt.Errorf("write receipt: %w", err)
				}
			}
		}

		if err := r.checkpoint.Save(r.cfg.Script, lineNo); err != nil {
			return stats, err
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan input: %w", err)
	}
	return stats, nil
}

func (r *Runner) fail(line int, op string, err error) error {
	r.logger.Debug("line rejected", zap.Int("line", line), zap.String("op", op), zap.Error(err))
	if r.failures == nil {
		return nil
	}
	if err := r.failures.Write(newFailure(line, op, err)); err != nil {
		return fmt.Errorf("write failure: %w", err)
	}
	return nil
}

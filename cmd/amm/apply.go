package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityCore/internal/config"
	"liquidityCore/internal/replay"
)

func runApply(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadApply(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}

	// a memory store starts empty, so resuming part way through would skip state
	checkpointEnabled := cfg.CheckpointEnabled && cfg.Store != config.StoreMemory

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := openEngine(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer handle.Close()

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	outWriter, err := newJSONLWriter(cfg.Out, checkpointEnabled)
	if err != nil {
		return err
	}
	defer outWriter.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, checkpointEnabled)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	script, err := filepath.Abs(cfg.In)
	if err != nil {
		script = cfg.In
	}

	runner := replay.NewRunner(replay.RunConfig{
		Script:            script,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: checkpointEnabled,
	}, handle.engine, handle.manual, outWriter, errWriter, logger)

	logger.Info("apply start",
		zap.String("in", cfg.In),
		zap.String("store", cfg.Store),
		zap.String("clock", cfg.Clock),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.String("events", cfg.Events),
		zap.Bool("checkpoint_enabled", checkpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	stats, err := runner.Run(ctx, inputFile)
	logger.Info("apply complete",
		zap.Int("total", stats.Total),
		zap.Int("applied", stats.Applied),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
	)
	return err
}

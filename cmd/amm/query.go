package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"liquidityCore/internal/amm"
	"liquidityCore/internal/config"
)

func newQueryCommands() []*cobra.Command {
	pool := queryCommand("pool", "Print a pool", func(ctx context.Context, e *amm.Engine, cfg config.QueryConfig, _ *cobra.Command) (interface{}, error) {
		return e.Pool(ctx, cfg.ID)
	})
	position := queryCommand("position", "Print a position", func(ctx context.Context, e *amm.Engine, cfg config.QueryConfig, _ *cobra.Command) (interface{}, error) {
		return e.Position(ctx, cfg.ID)
	})
	oracle := queryCommand("oracle", "Print a pool's oracle sample", func(ctx context.Context, e *amm.Engine, cfg config.QueryConfig, _ *cobra.Command) (interface{}, error) {
		return e.OracleSample(ctx, cfg.ID)
	})
	tick := queryCommand("tick", "Print a pool tick", func(ctx context.Context, e *amm.Engine, cfg config.QueryConfig, cmd *cobra.Command) (interface{}, error) {
		index, _ := cmd.Flags().GetInt32("index")
		return e.Tick(ctx, cfg.ID, index)
	})
	tick.Flags().Int32("index", 0, "tick index")
	flags := queryCommand("flags", "Print the global flags", func(ctx context.Context, e *amm.Engine, _ config.QueryConfig, _ *cobra.Command) (interface{}, error) {
		return e.Flags(ctx)
	})

	return []*cobra.Command{pool, position, oracle, tick, flags}
}

type queryFunc func(ctx context.Context, e *amm.Engine, cfg config.QueryConfig, cmd *cobra.Command) (interface{}, error)

func queryCommand(use, short string, fn queryFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadQuery(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// queries never emit events
			cfg.Events = ""
			handle, err := openEngine(ctx, cfg.Config, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			value, err := fn(ctx, handle.engine, cfg, cmd)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(value)
		},
	}

	addEngineFlags(cmd.Flags())
	cmd.Flags().Uint64("id", 0, "pool or position id")
	return cmd
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"liquidityCore/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "amm",
		Short:        "Concentrated-liquidity market maker engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an operation script to the engine",
		RunE:  runApply,
	}

	addEngineFlags(applyCmd.Flags())
	applyCmd.Flags().String("in", "", "input operations JSONL")
	applyCmd.Flags().String("out", "./data/receipts.jsonl", "receipts JSONL")
	applyCmd.Flags().String("errors", "./data/failures.jsonl", "rejected operations JSONL")
	applyCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	applyCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")

	root.AddCommand(applyCmd)
	root.AddCommand(newQueryCommands()...)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate swap events into per-pool block windows",
		RunE:  runStats,
	}

	statsCmd.Flags().String("in", "./data/events.jsonl", "input events JSONL")
	statsCmd.Flags().String("out", "./data/pool_windows.jsonl", "output JSONL when no Postgres DSN is set")
	statsCmd.Flags().Uint64("window", 100, "window size in blocks")
	statsCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	statsCmd.Flags().Int("batch-size", 1000, "batch size for writes")
	statsCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	statsCmd.Flags().String("recompute-from", "", "recompute from block height")
	statsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(statsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEngineFlags(fs *pflag.FlagSet) {
	fs.String("store", config.StoreLevelDB, "state store (memory, leveldb, postgres)")
	fs.String("data-dir", "./data/state", "LevelDB directory")
	fs.String("pg-dsn", "", "Postgres DSN for the postgres store")
	fs.String("owner", "", "owner address")
	fs.String("clock", config.ClockManual, "clock source (manual, rpc)")
	fs.Uint64("height", 0, "starting height of the manual clock")
	fs.String("rpc", "", "RPC URL for the rpc clock")
	fs.String("events", "./data/events.jsonl", "events JSONL, empty to disable")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreLevelDB  = "leveldb"
	StorePostgres = "postgres"
)

// Clock sources.
const (
	ClockManual = "manual"
	ClockRPC    = "rpc"
)

// Config holds the engine settings shared by every command.
type Config struct {
	Store    string
	DataDir  string
	PGDSN    string
	Owner    string
	Clock    string
	Height   uint64
	RPCURL   string
	Events   string
	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := load(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}
	return engineConfig(v)
}

func engineConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Store:    strings.ToLower(v.GetString("store")),
		DataDir:  v.GetString("data-dir"),
		PGDSN:    v.GetString("pg-dsn"),
		Owner:    v.GetString("owner"),
		Clock:    strings.ToLower(v.GetString("clock")),
		Height:   v.GetUint64("height"),
		RPCURL:   v.GetString("rpc"),
		Events:   v.GetString("events"),
		LogLevel: v.GetString("log-level"),
	}

	switch cfg.Store {
	case StoreMemory, StoreLevelDB, StorePostgres:
	default:
		return Config{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
	switch cfg.Clock {
	case ClockManual, ClockRPC:
	default:
		return Config{}, fmt.Errorf("unknown clock %q", cfg.Clock)
	}
	return cfg, nil
}

func load(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("AMM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store", StoreLevelDB)
	v.SetDefault("data-dir", "./data/state")
	v.SetDefault("clock", ClockManual)
	v.SetDefault("events", "./data/events.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

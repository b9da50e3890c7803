package config

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// StatsConfig holds configuration for swap window aggregation.
type StatsConfig struct {
	In            string
	Out           string
	Window        uint64
	PGDSN         string
	BatchSize     int
	StateFile     string
	RecomputeFrom uint64
	LogLevel      string
}

// LoadStats merges config file, environment variables, and flags into StatsConfig.
func LoadStats(cfgFile string, flags *pflag.FlagSet) (StatsConfig, error) {
	v, err := load(cfgFile, flags)
	if err != nil {
		return StatsConfig{}, err
	}

	recompute, err := ParseHeight(v.GetString("recompute-from"))
	if err != nil {
		return StatsConfig{}, err
	}

	return StatsConfig{
		In:            v.GetString("in"),
		Out:           v.GetString("out"),
		Window:        v.GetUint64("window"),
		PGDSN:         v.GetString("pg-dsn"),
		BatchSize:     v.GetInt("batch-size"),
		StateFile:     v.GetString("state-file"),
		RecomputeFrom: recompute,
		LogLevel:      v.GetString("log-level"),
	}, nil
}

// ParseHeight parses a block height; an empty value is zero.
func ParseHeight(input string) (uint64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	return strconv.ParseUint(input, 10, 64)
}

package config

import (
	"github.com/spf13/pflag"
)

// ApplyConfig holds configuration for the apply command.
type ApplyConfig struct {
	Config

	In                string
	Out               string
	Errors            string
	Checkpoint        string
	CheckpointEnabled bool
}

// LoadApply merges config file, environment variables, and flags into ApplyConfig.
func LoadApply(cfgFile string, flags *pflag.FlagSet) (ApplyConfig, error) {
	v, err := load(cfgFile, flags)
	if err != nil {
		return ApplyConfig{}, err
	}
	base, err := engineConfig(v)
	if err != nil {
		return ApplyConfig{}, err
	}

	return ApplyConfig{
		Config:            base,
		In:                v.GetString("in"),
		Out:               v.GetString("out"),
		Errors:            v.GetString("errors"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
	}, nil
}

// QueryConfig holds configuration for the record lookup commands.
type QueryConfig struct {
	Config

	ID uint64
}

func LoadQuery(cfgFile string, flags *pflag.FlagSet) (QueryConfig, error) {
	v, err := load(cfgFile, flags)
	if err != nil {
		return QueryConfig{}, err
	}
	base, err := engineConfig(v)
	if err != nil {
		return QueryConfig{}, err
	}
	return QueryConfig{Config: base, ID: v.GetUint64("id")}, nil
}

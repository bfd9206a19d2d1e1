// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Ring configuration with defaults, environment overrides and validation.

package control

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

// Allocator kinds accepted by Config.Allocator.
const (
	AllocatorHeap      = "heap"
	AllocatorRecycling = "recycling"
	AllocatorMmap      = "mmap"
)

// EnvPrefix prefixes every environment override, e.g. RING_CAPACITY.
const EnvPrefix = "RING"

// Config describes one ring and its surroundings.
type Config struct {
	Capacity     int    `mapstructure:"capacity"`
	Overflow     string `mapstructure:"overflow"`
	Allocator    string `mapstructure:"allocator"`
	RecycleLimit int    `mapstructure:"recycle_limit"`
	Segments     int    `mapstructure:"segments"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	LogLevel     string `mapstructure:"log_level"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("capacity", 8)
	v.SetDefault("overflow", ring.OverwriteHead.String())
	v.SetDefault("allocator", AllocatorHeap)
	v.SetDefault("recycle_limit", 0)
	v.SetDefault("segments", 8)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", "info")
}

// BindFlags binds flags to v; flag names use dashes, keys use underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return err
}

// LoadConfig reads an optional config file, applies RING_* environment
// overrides and validates the result.
func LoadConfig(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Capacity < 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "capacity must not be negative").
			WithContext("capacity", c.Capacity)
	}
	if _, err := ring.ParseOverflowPolicy(c.Overflow); err != nil {
		return err
	}
	switch c.Allocator {
	case AllocatorHeap, AllocatorRecycling, AllocatorMmap:
	default:
		return api.NewError(api.ErrCodeInvalidArgument, "unknown allocator").
			WithContext("allocator", c.Allocator)
	}
	if c.Segments < 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "segments must not be negative").
			WithContext("segments", c.Segments)
	}
	return nil
}

// OverflowPolicy returns the parsed overflow policy.
func (c Config) OverflowPolicy() ring.OverflowPolicy {
	p, _ := ring.ParseOverflowPolicy(c.Overflow)
	return p
}

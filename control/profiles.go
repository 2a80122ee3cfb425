// control/profiles.go
// Author: momentics <momentics@gmail.com>
//
// YAML pool profiles: named growth/capacity/allocator presets that callers
// turn into pool options.

package control

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/pool"
)

// Allocator kinds accepted in profiles.
const (
	AllocHeap   = "heap"
	AllocMmap   = "mmap"
	AllocBudget = "budget"
	AllocGuard  = "guard"
)

// Config is the top-level pool configuration document.
type Config struct {
	Logging  LoggingConfig      `yaml:"logging"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Profile describes how to build one pool.
type Profile struct {
	GrowthStep      int    `yaml:"growth_step"`
	Capacity        int    `yaml:"capacity"`
	MemberSize      int    `yaml:"member_size"`
	Allocator       string `yaml:"allocator"`
	BudgetBytes     int64  `yaml:"budget_bytes"`
	GuardFloorBytes uint64 `yaml:"guard_floor_bytes"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Profiles: map[string]Profile{},
	}
}

// LoadConfig loads configuration from file and environment variables.
// An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML document over the defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "malformed pool config").WithCause(err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("MEMPOOL_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("MEMPOOL_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !isValidLogLevel(c.Logging.Level) {
		return api.NewError(api.ErrCodeInvalidArgument, "invalid log level").
			WithContext("level", c.Logging.Level)
	}
	for name, p := range c.Profiles {
		if err := p.Validate(); err != nil {
			return api.NewError(api.ErrCodeInvalidArgument, "invalid profile "+name).WithCause(err)
		}
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Validate checks a single profile.
func (p Profile) Validate() error {
	switch {
	case p.MemberSize <= 0:
		return api.NewError(api.ErrCodeConstruction, "member_size must be positive").
			WithContext("member_size", p.MemberSize)
	case p.GrowthStep < 0 || p.Capacity < 0:
		return api.NewError(api.ErrCodeConstruction, "growth_step and capacity must not be negative")
	}
	switch p.kind() {
	case AllocHeap, AllocMmap, AllocGuard:
	case AllocBudget:
		if p.BudgetBytes <= 0 {
			return api.NewError(api.ErrCodeInvalidArgument, "budget allocator needs budget_bytes")
		}
	default:
		return api.NewError(api.ErrCodeInvalidArgument, "unknown allocator").
			WithContext("allocator", p.Allocator)
	}
	return nil
}

func (p Profile) kind() string {
	if p.Allocator == "" {
		return AllocHeap
	}
	return strings.ToLower(p.Allocator)
}

// NewAllocator builds the allocator the profile names.
func (p Profile) NewAllocator() (api.Allocator, error) {
	switch p.kind() {
	case AllocHeap:
		return pool.HeapAllocator{}, nil
	case AllocMmap:
		m, err := pool.NewMmapAllocator()
		if err != nil {
			return nil, err
		}
		return m, nil
	case AllocBudget:
		return pool.NewBudgetAllocator(nil, p.BudgetBytes), nil
	case AllocGuard:
		return pool.NewGuardAllocator(nil, p.GuardFloorBytes, 0), nil
	}
	return nil, api.NewError(api.ErrCodeInvalidArgument, "unknown allocator").
		WithContext("allocator", p.Allocator)
}

// Options returns the pool options for this profile, extra options last.
func (p Profile) Options(extra ...pool.Option) ([]pool.Option, error) {
	alloc, err := p.NewAllocator()
	if err != nil {
		return nil, err
	}
	return append([]pool.Option{pool.WithAllocator(alloc)}, extra...), nil
}

// NewStablePool builds a StablePool from the profile.
func (p Profile) NewStablePool(extra ...pool.Option) (*pool.StablePool, error) {
	opts, err := p.Options(extra...)
	if err != nil {
		return nil, err
	}
	return pool.NewStablePool(p.GrowthStep, p.Capacity, p.MemberSize, opts...)
}

// NewSequencePool builds a SequencePool from the profile.
func (p Profile) NewSequencePool(extra ...pool.Option) (*pool.SequencePool, error) {
	opts, err := p.Options(extra...)
	if err != nil {
		return nil, err
	}
	return pool.NewSequencePool(p.GrowthStep, p.Capacity, p.MemberSize, opts...)
}

// NewRingPool builds a RingPool from the profile.
func (p Profile) NewRingPool(extra ...pool.Option) (*pool.RingPool, error) {
	opts, err := p.Options(extra...)
	if err != nil {
		return nil, err
	}
	return pool.NewRingPool(p.GrowthStep, p.Capacity, p.MemberSize, opts...)
}

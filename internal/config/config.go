// Package config holds the run configuration: CLI values validated at
// startup plus operational tuning from environment variables. The
// configuration is immutable once parsing succeeds.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mrzor/biosnoop/internal/bpf"
)

// Config is the validated command-line configuration.
type Config struct {
	// Disk restricts tracing to one device name, empty for all.
	Disk string
	// CgroupPath restricts tracing to processes under a cgroup.
	CgroupPath string
	// Queued adds the OS queued-time column.
	Queued bool
	// Verbose enables debug diagnostics.
	Verbose bool
	// Duration bounds the trace wall-clock time, zero for unbounded.
	Duration time.Duration
}

// FilterCgroup reports whether a cgroup filter was requested.
func (c *Config) FilterCgroup() bool {
	return c.CgroupPath != ""
}

// Validate checks the CLI values that can be rejected without
// touching the system.
func (c *Config) Validate() error {
	if len(c.Disk)+1 > bpf.DiskNameLen {
		return fmt.Errorf("invalid disk name: too long")
	}
	return nil
}

// ParseDuration parses the positional trace duration, a positive
// integer number of seconds.
func ParseDuration(arg string) (time.Duration, error) {
	seconds, err := strconv.Atoi(arg)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("invalid duration (in seconds): %s", arg)
	}
	return time.Duration(seconds) * time.Second, nil
}

// EnvConfig holds operational tuning from environment variables.
type EnvConfig struct {
	// PerfPages is the per-CPU perf buffer size in pages.
	PerfPages int `env:"BIOSNOOP_PERF_PAGES" envDefault:"16"`
	// PollTimeout bounds each poll call; it also bounds how quickly
	// cancellation and the duration limit are observed.
	PollTimeout time.Duration `env:"BIOSNOOP_POLL_TIMEOUT" envDefault:"100ms"`
}

// ParseEnvConfig parses tuning knobs from the environment.
func ParseEnvConfig() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	if cfg.PerfPages <= 0 {
		return nil, fmt.Errorf("BIOSNOOP_PERF_PAGES must be positive, got %d", cfg.PerfPages)
	}
	if cfg.PollTimeout <= 0 {
		return nil, fmt.Errorf("BIOSNOOP_POLL_TIMEOUT must be positive, got %s", cfg.PollTimeout)
	}
	return &cfg, nil
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/biosnoop/internal/bpf"
)

func TestParseDuration_Valid(t *testing.T) {
	d, err := ParseDuration("10")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, arg := range []string{"0", "-5", "abc", "1.5", ""} {
		_, err := ParseDuration(arg)
		require.Error(t, err, "ParseDuration(%q)", arg)
		assert.Contains(t, err.Error(), "invalid duration")
	}
}

func TestValidate_DiskNameLength(t *testing.T) {
	cfg := &Config{Disk: strings.Repeat("a", bpf.DiskNameLen-1)}
	require.NoError(t, cfg.Validate())

	cfg.Disk = strings.Repeat("a", bpf.DiskNameLen)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid disk name: too long")
}

func TestValidate_EmptyDisk(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestFilterCgroup(t *testing.T) {
	assert.False(t, (&Config{}).FilterCgroup())
	assert.True(t, (&Config{CgroupPath: "/sys/fs/cgroup/foo"}).FilterCgroup())
}

func TestParseEnvConfig_Defaults(t *testing.T) {
	cfg, err := ParseEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.PerfPages)
	assert.Equal(t, 100*time.Millisecond, cfg.PollTimeout)
}

func TestParseEnvConfig_Overrides(t *testing.T) {
	t.Setenv("BIOSNOOP_PERF_PAGES", "64")
	t.Setenv("BIOSNOOP_POLL_TIMEOUT", "250ms")

	cfg, err := ParseEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.PerfPages)
	assert.Equal(t, 250*time.Millisecond, cfg.PollTimeout)
}

func TestParseEnvConfig_InvalidPages(t *testing.T) {
	t.Setenv("BIOSNOOP_PERF_PAGES", "-1")

	_, err := ParseEnvConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BIOSNOOP_PERF_PAGES")
}

func TestParseEnvConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("BIOSNOOP_POLL_TIMEOUT", "0s")

	_, err := ParseEnvConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BIOSNOOP_POLL_TIMEOUT")
}

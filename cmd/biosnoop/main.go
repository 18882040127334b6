// biosnoop is an eBPF-based block I/O tracer: it prints one line per
// completed request with its latency and, optionally, OS queued time.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrzor/biosnoop/internal/bpfloader"
	"github.com/mrzor/biosnoop/internal/config"
	"github.com/mrzor/biosnoop/internal/eventstream"
	"github.com/mrzor/biosnoop/internal/ksyms"
	"github.com/mrzor/biosnoop/internal/output"
	"github.com/mrzor/biosnoop/internal/partitions"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "biosnoop [duration]",
		Short: "Trace block device I/O",
		Long: `Trace block I/O.

EXAMPLES:
    biosnoop              # trace all block I/O
    biosnoop -Q           # include OS queued time in I/O time
    biosnoop 10           # trace for 10 seconds only
    biosnoop -d sdc       # trace sdc only
    biosnoop -c CG        # trace processes under cgroup path CG`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				duration, err := config.ParseDuration(args[0])
				if err != nil {
					return err
				}
				cfg.Duration = duration
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.Disk, "disk", "d", "", "Trace this disk only")
	cmd.Flags().BoolVarP(&cfg.Queued, "queued", "Q", false, "Include OS queued time in I/O time")
	cmd.Flags().StringVarP(&cfg.CgroupPath, "cgroup", "c", "", "Trace processes in this cgroup path only")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose debug output")

	return cmd
}

// newLogger builds the diagnostic logger. Trace output goes to stdout
// directly; the logger only carries diagnostics, on stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return logCfg.Build()
}

// poller is the part of the event pipeline the run loop needs.
type poller interface {
	Poll(timeout time.Duration) error
}

// pollLoop drains the pipeline until cancellation, the optional
// duration limit, or a hard poll error. The cancellation flag is
// checked between polls, so cancellation latency is bounded by the
// poll timeout.
func pollLoop(p poller, timeout, duration time.Duration, exiting *atomic.Bool) error {
	var deadline time.Time
	if duration > 0 {
		deadline = time.Now().Add(duration)
	}

	for !exiting.Load() {
		if err := p.Poll(timeout); err != nil {
			return err
		}
		if duration > 0 && time.Now().After(deadline) {
			return nil
		}
	}

	return nil
}

func run(cfg *config.Config) error {
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() //nolint:errcheck // Stderr sync failure is harmless at exit
	}()

	envCfg, err := config.ParseEnvConfig()
	if err != nil {
		return err
	}

	parts, err := partitions.Load()
	if err != nil {
		return fmt.Errorf("failed to load partitions info: %w", err)
	}

	if cfg.Disk != "" && parts.ByName(cfg.Disk) == nil {
		return fmt.Errorf("invalid partition name: not exist")
	}

	loader, err := bpfloader.New(cfg.Queued, cfg.FilterCgroup(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := loader.Close(); err != nil {
			logger.Warn("closing loader", zap.Error(err))
		}
	}()

	if cfg.FilterCgroup() {
		if err := loader.BindCgroup(cfg.CgroupPath); err != nil {
			return err
		}
	}

	ks, err := ksyms.Load()
	if err != nil {
		return fmt.Errorf("failed to load kallsyms: %w", err)
	}

	if err := loader.Attach(ks, cfg.Queued); err != nil {
		return err
	}

	formatter := output.NewFormatter(os.Stdout, os.Stderr, parts, cfg.Queued)
	stream, err := eventstream.New(loader.EventsMap(), envCfg.PerfPages, formatter, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Warn("closing event stream", zap.Error(err))
		}
	}()

	formatter.WriteHeader()

	var exiting atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		exiting.Store(true)
	}()

	return pollLoop(stream, envCfg.PollTimeout, cfg.Duration, &exiting)
}

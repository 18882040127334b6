// Package bpfloader manages the lifecycle of the block I/O
// instrumentation: program load with pre-load configuration, the
// ordered probe attachments, and teardown of everything acquired.
package bpfloader

import (
	"errors"
	"fmt"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/rlimit"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/mrzor/biosnoop/internal/bpf"
	"github.com/mrzor/biosnoop/internal/ksyms"
)

// mergeBioSymbol gates the optional merge probe: the function only
// exists in newer kernels, and its absence is expected.
const mergeBioSymbol = "blk_account_io_merge_bio"

// Loader owns the loaded BPF objects and every probe attachment.
// Attachments are strictly ordered; any failure rolls back what was
// acquired before it.
type Loader struct {
	objs   bpf.BiosnoopObjects
	logger *zap.Logger

	cgroupFD int

	startLink    link.Link
	mergeLink    link.Link
	insertLink   link.Link
	issueLink    link.Link
	completeLink link.Link
}

// New loads the instrumentation program into the kernel. The queued
// and filterCgroup flags are written into the program's constants
// before load - they select which kernel-side code paths are active,
// so they cannot change afterwards.
func New(queued, filterCgroup bool, logger *zap.Logger) (*Loader, error) {
	if err := rlimit.RemoveMemlock(); err != nil {
		return nil, fmt.Errorf("removing memlock limit: %w", err)
	}

	spec, err := bpf.LoadBiosnoop()
	if err != nil {
		return nil, fmt.Errorf("loading BPF spec: %w", err)
	}

	if err := spec.RewriteConstants(map[string]interface{}{
		"targ_queued": queued,
		"filter_cg":   filterCgroup,
	}); err != nil {
		return nil, fmt.Errorf("rewriting BPF constants: %w", err)
	}

	l := &Loader{logger: logger, cgroupFD: -1}
	if err := spec.LoadAndAssign(&l.objs, nil); err != nil {
		return nil, fmt.Errorf("loading BPF objects: %w", err)
	}

	return l, nil
}

// BindCgroup opens the cgroup path and installs its descriptor into
// the one-entry cgroup map the program filters against.
func (l *Loader) BindCgroup(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("opening cgroup path %s: %w", path, err)
	}
	l.cgroupFD = fd

	idx := uint32(0)
	//nolint:gosec // int to uint32 conversion required for BPF map value type
	if err := l.objs.CgroupMap.Put(&idx, uint32(fd)); err != nil {
		return fmt.Errorf("adding target cgroup to map: %w", err)
	}
	return nil
}

// closeErrorf rolls back every attachment made so far and returns a
// formatted error. Links are cleared so teardown never releases one
// twice.
func (l *Loader) closeErrorf(errstr string, e error) error {
	for _, lnk := range []*link.Link{
		&l.completeLink, &l.issueLink, &l.insertLink, &l.mergeLink, &l.startLink,
	} {
		if *lnk != nil {
			_ = (*lnk).Close() //nolint:errcheck // Best-effort cleanup in error path
			*lnk = nil
		}
	}
	return fmt.Errorf("%s: %w", errstr, e)
}

// Attach attaches the probes in their fixed order: request start,
// the optional merge probe, the enqueue probe when queue tracking is
// on, then issue and completion. Completion must come last so the
// programs feeding the request-keyed maps are live first.
func (l *Loader) Attach(ks *ksyms.Ksyms, queued bool) error {
	var err error

	l.startLink, err = link.AttachTracing(link.TracingOptions{
		Program: l.objs.BlkAccountIoStart,
	})
	if err != nil {
		return l.closeErrorf("attaching blk_account_io_start", err)
	}

	if ks.Has(mergeBioSymbol) {
		l.mergeLink, err = link.AttachTracing(link.TracingOptions{
			Program: l.objs.BlkAccountIoMergeBio,
		})
		if err != nil {
			return l.closeErrorf("attaching blk_account_io_merge_bio", err)
		}
	} else {
		l.logger.Debug("kernel has no merge probe point, skipping",
			zap.String("symbol", mergeBioSymbol))
	}

	if queued {
		l.insertLink, err = link.AttachTracing(link.TracingOptions{
			Program: l.objs.BlockRqInsert,
		})
		if err != nil {
			return l.closeErrorf("attaching block_rq_insert", err)
		}
	}

	l.issueLink, err = link.AttachTracing(link.TracingOptions{
		Program: l.objs.BlockRqIssue,
	})
	if err != nil {
		return l.closeErrorf("attaching block_rq_issue", err)
	}

	l.completeLink, err = link.AttachTracing(link.TracingOptions{
		Program: l.objs.BlockRqComplete,
	})
	if err != nil {
		return l.closeErrorf("attaching block_rq_complete", err)
	}

	return nil
}

// EventsMap returns the perf event array carrying completed-request
// records.
func (l *Loader) EventsMap() *ebpf.Map {
	return l.objs.Events
}

// Close releases every attached probe, the loaded objects, and the
// cgroup descriptor. Releases are unconditional and independent; a
// failure on one never skips the others.
func (l *Loader) Close() error {
	var errs []error

	for _, entry := range []struct {
		name string
		lnk  *link.Link
	}{
		{"complete", &l.completeLink},
		{"issue", &l.issueLink},
		{"insert", &l.insertLink},
		{"merge", &l.mergeLink},
		{"start", &l.startLink},
	} {
		name, lnk := entry.name, entry.lnk
		if *lnk != nil {
			if err := (*lnk).Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s link: %w", name, err))
			}
			*lnk = nil
		}
	}

	if err := l.objs.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing BPF objects: %w", err))
	}

	if l.cgroupFD >= 0 {
		if err := unix.Close(l.cgroupFD); err != nil {
			errs = append(errs, fmt.Errorf("closing cgroup descriptor: %w", err))
		}
		l.cgroupFD = -1
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during cleanup: %w", errors.Join(errs...))
	}

	return nil
}

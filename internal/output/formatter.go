package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mrzor/biosnoop/internal/bpf"
	"github.com/mrzor/biosnoop/internal/partitions"
)

// unknownDisk is printed when the device is not in the registry.
const unknownDisk = "Unknown"

// Formatter renders one line per completed request in fixed-width
// columns. It is single-consumer state: the origin timestamp is taken
// from the first record observed and never reset.
type Formatter struct {
	w      io.Writer
	errw   io.Writer
	parts  *partitions.Partitions
	queued bool

	originSet bool
	originTs  uint64
}

// NewFormatter creates a formatter writing trace lines to w and
// data-loss notices to errw. The queue-delay column is emitted only
// when queued is set.
func NewFormatter(w, errw io.Writer, parts *partitions.Partitions, queued bool) *Formatter {
	return &Formatter{
		w:      w,
		errw:   errw,
		parts:  parts,
		queued: queued,
	}
}

// WriteHeader prints the column header line.
func (f *Formatter) WriteHeader() {
	fmt.Fprintf(f.w, "%-11s %-14s %-6s %-7s %-4s %-10s %-7s ",
		"TIME(s)", "COMM", "PID", "DISK", "T", "SECTOR", "BYTES")
	if f.queued {
		fmt.Fprintf(f.w, "%7s ", "QUE(ms)")
	}
	fmt.Fprintf(f.w, "%7s\n", "LAT(ms)")
}

// HandleEvent decodes and prints a single completed request.
func (f *Formatter) HandleEvent(e *bpf.Event) error {
	if !f.originSet {
		f.originTs = e.Ts
		f.originSet = true
	}

	disk := unknownDisk
	if part := f.parts.ByDev(e.Dev); part != nil {
		disk = part.Name
	}

	fmt.Fprintf(f.w, "%-11.6f %-14.14s %-6d %-7s %-4s %-10d %-7d ",
		float64(e.Ts-f.originTs)/1e9,
		comm(e.Comm[:]), e.Pid, disk, RWBS(e.CmdFlags),
		e.Sector, e.Len)
	if f.queued {
		qdelta := -1.0
		if e.Qdelta != bpf.QdeltaUnset {
			qdelta = float64(e.Qdelta) / 1e6
		}
		fmt.Fprintf(f.w, "%7.3f ", qdelta)
	}
	fmt.Fprintf(f.w, "%7.3f\n", float64(e.Delta)/1e6)

	return nil
}

// HandleLost reports kernel buffer overflow. Loss never terminates
// the run.
func (f *Formatter) HandleLost(cpu int, count uint64) {
	fmt.Fprintf(f.errw, "lost %d events on CPU #%d\n", count, cpu)
}

// comm trims the fixed-size command buffer at the first NUL.
func comm(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

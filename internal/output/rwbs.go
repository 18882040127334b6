package output

import (
	"github.com/mrzor/biosnoop/internal/bpf"
)

// RWBS decodes cmd_flags into the compact operation label used by
// blktrace and friends: optional pre-flush marker, exactly one
// operation kind, then modifier markers in fixed order.
// Unrecognized operation kinds decode to "N", never an error.
func RWBS(cmdFlags uint32) string {
	var buf [8]byte
	i := 0

	if cmdFlags&bpf.REQ_PREFLUSH != 0 {
		buf[i] = 'F'
		i++
	}

	switch cmdFlags & bpf.REQ_OP_MASK {
	case bpf.REQ_OP_WRITE, bpf.REQ_OP_WRITE_SAME:
		buf[i] = 'W'
		i++
	case bpf.REQ_OP_DISCARD:
		buf[i] = 'D'
		i++
	case bpf.REQ_OP_SECURE_ERASE:
		buf[i] = 'D'
		buf[i+1] = 'E'
		i += 2
	case bpf.REQ_OP_FLUSH:
		buf[i] = 'F'
		i++
	case bpf.REQ_OP_READ:
		buf[i] = 'R'
		i++
	default:
		buf[i] = 'N'
		i++
	}

	if cmdFlags&bpf.REQ_FUA != 0 {
		buf[i] = 'F'
		i++
	}
	if cmdFlags&bpf.REQ_RAHEAD != 0 {
		buf[i] = 'A'
		i++
	}
	if cmdFlags&bpf.REQ_SYNC != 0 {
		buf[i] = 'S'
		i++
	}
	if cmdFlags&bpf.REQ_META != 0 {
		buf[i] = 'M'
		i++
	}

	return string(buf[:i])
}

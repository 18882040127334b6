// Package bpf provides Go bindings for the eBPF block I/O tracer.
package bpf

import (
	"github.com/cilium/ebpf"
)

//go:generate go run github.com/cilium/ebpf/cmd/bpf2go -target amd64 biosnoop ./biosnoop.bpf.c -- -I.

// Sizes shared with the C side (biosnoop.h).
const (
	TaskCommLen = 16
	DiskNameLen = 32
)

// QdeltaUnset marks a record whose enqueue timestamp was never captured.
// The producer writes -1 into the unsigned field.
const QdeltaUnset = ^uint64(0)

// Request operation kinds, low bits of cmd_flags.
// Values match the kernel's blk_types.h.
//
//nolint:revive,staticcheck // ALL_CAPS naming matches C/kernel conventions
const (
	REQ_OP_READ         = 0
	REQ_OP_WRITE        = 1
	REQ_OP_FLUSH        = 2
	REQ_OP_DISCARD      = 3
	REQ_OP_SECURE_ERASE = 5
	REQ_OP_WRITE_SAME   = 7

	REQ_OP_BITS = 8
	REQ_OP_MASK = (1 << REQ_OP_BITS) - 1
)

// Request modifier bits, upper bits of cmd_flags.
//
//nolint:revive,staticcheck // ALL_CAPS naming matches C/kernel conventions
const (
	REQ_SYNC     = 1 << 11
	REQ_META     = 1 << 12
	REQ_FUA      = 1 << 17
	REQ_PREFLUSH = 1 << 18
	REQ_RAHEAD   = 1 << 19
)

// Event matches the completed-request record emitted by biosnoop.bpf.c
// (struct event in biosnoop.h). Field order and padding must stay in
// sync with the C struct.
type Event struct {
	Comm     [TaskCommLen]byte
	Delta    uint64
	Qdelta   uint64
	Ts       uint64
	Sector   uint64
	Len      uint32
	Pid      uint32
	CmdFlags uint32
	Dev      uint32
}

// BiosnoopObjects provides access to the loaded BPF objects.
type BiosnoopObjects = biosnoopObjects

// BiosnoopPrograms provides access to the BPF programs.
type BiosnoopPrograms = biosnoopPrograms

// BiosnoopMaps provides access to the BPF maps.
type BiosnoopMaps = biosnoopMaps

// LoadBiosnoop returns the embedded CollectionSpec. Callers rewrite the
// configuration constants before loading it into the kernel.
func LoadBiosnoop() (*ebpf.CollectionSpec, error) {
	return loadBiosnoop()
}

// LoadBiosnoopObjects loads the BPF programs and maps.
func LoadBiosnoopObjects(obj *biosnoopObjects, opts *ebpf.CollectionOptions) error {
	return loadBiosnoopObjects(obj, opts)
}

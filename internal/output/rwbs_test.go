package output

import (
	"testing"

	"github.com/mrzor/biosnoop/internal/bpf"
)

func TestRWBS(t *testing.T) {
	tests := []struct {
		name  string
		flags uint32
		want  string
	}{
		{
			name:  "read",
			flags: bpf.REQ_OP_READ,
			want:  "R",
		},
		{
			name:  "write",
			flags: bpf.REQ_OP_WRITE,
			want:  "W",
		},
		{
			name:  "write same decodes as write",
			flags: bpf.REQ_OP_WRITE_SAME,
			want:  "W",
		},
		{
			name:  "discard",
			flags: bpf.REQ_OP_DISCARD,
			want:  "D",
		},
		{
			name:  "secure erase",
			flags: bpf.REQ_OP_SECURE_ERASE,
			want:  "DE",
		},
		{
			name:  "flush",
			flags: bpf.REQ_OP_FLUSH,
			want:  "F",
		},
		{
			name:  "unknown operation kind",
			flags: 9, // REQ_OP_WRITE_ZEROES, not decoded
			want:  "N",
		},
		{
			name:  "preflush write",
			flags: bpf.REQ_PREFLUSH | bpf.REQ_OP_WRITE,
			want:  "FW",
		},
		{
			name:  "preflush flush",
			flags: bpf.REQ_PREFLUSH | bpf.REQ_OP_FLUSH,
			want:  "FF",
		},
		{
			name:  "write fua sync",
			flags: bpf.REQ_OP_WRITE | bpf.REQ_FUA | bpf.REQ_SYNC,
			want:  "WFS",
		},
		{
			name:  "readahead meta read",
			flags: bpf.REQ_OP_READ | bpf.REQ_RAHEAD | bpf.REQ_META,
			want:  "RAM",
		},
		{
			name:  "all modifiers keep fixed order",
			flags: bpf.REQ_OP_READ | bpf.REQ_FUA | bpf.REQ_RAHEAD | bpf.REQ_SYNC | bpf.REQ_META,
			want:  "RFASM",
		},
		{
			name:  "secure erase with modifiers",
			flags: bpf.REQ_PREFLUSH | bpf.REQ_OP_SECURE_ERASE | bpf.REQ_SYNC,
			want:  "FDES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RWBS(tt.flags); got != tt.want {
				t.Errorf("RWBS(%#x) = %q, want %q", tt.flags, got, tt.want)
			}
		})
	}
}

func TestRWBS_Deterministic(t *testing.T) {
	flags := uint32(bpf.REQ_OP_WRITE | bpf.REQ_FUA | bpf.REQ_SYNC)
	first := RWBS(flags)
	for i := 0; i < 100; i++ {
		if got := RWBS(flags); got != first {
			t.Fatalf("RWBS(%#x) changed between calls: %q then %q", flags, first, got)
		}
	}
}

func TestRWBS_NeverEmpty(t *testing.T) {
	// The operation-kind position always yields a marker, whatever
	// the remaining bits say.
	for op := uint32(0); op <= bpf.REQ_OP_MASK; op++ {
		if got := RWBS(op); got == "" {
			t.Fatalf("RWBS(%#x) returned an empty label", op)
		}
	}
}

package eventstream

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/biosnoop/internal/bpf"
)

func TestDecodeEvent(t *testing.T) {
	want := bpf.Event{
		Delta:    2_000_000,
		Qdelta:   bpf.QdeltaUnset,
		Ts:       1_100_000_100,
		Sector:   2048,
		Len:      4096,
		Pid:      1234,
		CmdFlags: bpf.REQ_OP_WRITE | bpf.REQ_SYNC,
		Dev:      8<<20 | 1,
	}
	copy(want.Comm[:], "fio")

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &want))

	got, err := decodeEvent(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestDecodeEvent_Short(t *testing.T) {
	_, err := decodeEvent([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)
}

func TestEventRecordSize(t *testing.T) {
	// The wire record is the 64-byte C struct; a drift here means the
	// Go mirror no longer matches biosnoop.h.
	assert.Equal(t, 64, binary.Size(bpf.Event{}))
}

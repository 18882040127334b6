// Package eventstream bridges the kernel-side perf event array to the
// user-space consumer: each poll drains the available records, decodes
// them, and hands them to the handler one at a time.
package eventstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/perf"
	"go.uber.org/zap"

	"github.com/mrzor/biosnoop/internal/bpf"
)

// Handler receives decoded records and data-loss notifications.
// HandleEvent must not block; it decodes and writes one line.
type Handler interface {
	HandleEvent(event *bpf.Event) error
	HandleLost(cpu int, count uint64)
}

// Stream owns the perf buffer reader.
type Stream struct {
	reader  *perf.Reader
	handler Handler
	logger  *zap.Logger
}

// New opens a perf buffer of pages per-CPU pages over the events map.
func New(events *ebpf.Map, pages int, handler Handler, logger *zap.Logger) (*Stream, error) {
	reader, err := perf.NewReader(events, pages*os.Getpagesize())
	if err != nil {
		return nil, fmt.Errorf("opening perf buffer: %w", err)
	}

	return &Stream{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}, nil
}

// Poll blocks up to timeout and drains every available record,
// invoking the handler once per record in arrival order and once per
// lost-sample batch. Running out of data within the timeout is not an
// error; control simply returns to the caller.
func (s *Stream) Poll(timeout time.Duration) error {
	s.reader.SetDeadline(time.Now().Add(timeout))

	for {
		record, err := s.reader.Read()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("reading perf buffer: %w", err)
		}

		if record.LostSamples > 0 {
			s.handler.HandleLost(record.CPU, record.LostSamples)
			continue
		}

		event, err := decodeEvent(record.RawSample)
		if err != nil {
			s.logger.Warn("parsing event", zap.Error(err))
			continue
		}

		if err := s.handler.HandleEvent(event); err != nil {
			s.logger.Warn("handling event", zap.Error(err))
		}
	}
}

// Close releases the perf buffer.
func (s *Stream) Close() error {
	if err := s.reader.Close(); err != nil {
		return fmt.Errorf("closing perf buffer: %w", err)
	}
	return nil
}

// decodeEvent parses one raw perf record into an Event.
func decodeEvent(raw []byte) (*bpf.Event, error) {
	var event bpf.Event
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

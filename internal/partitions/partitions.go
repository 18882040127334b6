// Package partitions maintains a registry of the system's block
// devices and partitions, loaded once from /proc/partitions.
//
// Events carry the kernel's composite device number; the registry maps
// it back to the device name for display. A device that disappears (or
// was never listed) is not an error - callers render it as "Unknown".
package partitions

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Partition describes one row of /proc/partitions.
type Partition struct {
	Name  string
	Major uint32
	Minor uint32
	Dev   uint32
}

// Partitions is the loaded registry. Read-only after Load.
type Partitions struct {
	byDev  map[uint32]*Partition
	byName map[string]*Partition
}

// MkDev combines major and minor into the kernel's composite device
// number (new_encode_dev), matching what the BPF side emits.
func MkDev(major, minor uint32) uint32 {
	return major<<20 | minor
}

// Load reads /proc/partitions and builds the registry.
func Load() (*Partitions, error) {
	file, err := os.Open("/proc/partitions")
	if err != nil {
		return nil, fmt.Errorf("failed to open /proc/partitions: %w", err)
	}
	defer func() {
		_ = file.Close() //nolint:errcheck // Read-only file, defer cleanup
	}()

	return Parse(file)
}

// Parse builds the registry from a /proc/partitions style table.
// Load feeds it the live file; tests feed synthetic tables.
func Parse(r io.Reader) (*Partitions, error) {
	p := &Partitions{
		byDev:  make(map[uint32]*Partition),
		byName: make(map[string]*Partition),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Header row and blank separator line.
		if len(fields) != 4 || fields[0] == "major" {
			continue
		}

		major, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("failed to parse major %q: %w", fields[0], err)
		}
		minor, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("failed to parse minor %q: %w", fields[1], err)
		}

		part := &Partition{
			Name:  fields[3],
			Major: uint32(major),
			Minor: uint32(minor),
			Dev:   MkDev(uint32(major), uint32(minor)),
		}
		p.byDev[part.Dev] = part
		p.byName[part.Name] = part
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading partitions table: %w", err)
	}

	return p, nil
}

// ByDev returns the partition for a composite device number, or nil if
// no such device is known.
func (p *Partitions) ByDev(dev uint32) *Partition {
	return p.byDev[dev]
}

// ByName returns the partition with the given display name, or nil.
func (p *Partitions) ByName(name string) *Partition {
	return p.byName[name]
}

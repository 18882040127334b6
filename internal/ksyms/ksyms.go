// Package ksyms answers whether a symbol exists in the running
// kernel's symbol table. Probe points added in later kernel versions
// are attached only when the symbol is present; this is a capability
// query, distinct from an attach failure.
package ksyms

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Ksyms is a set of kernel symbol names. Read-only after Load.
type Ksyms struct {
	syms map[string]struct{}
}

// Load reads /proc/kallsyms into a symbol set.
func Load() (*Ksyms, error) {
	file, err := os.Open("/proc/kallsyms")
	if err != nil {
		return nil, fmt.Errorf("failed to open /proc/kallsyms: %w", err)
	}
	defer func() {
		_ = file.Close() //nolint:errcheck // Read-only file, defer cleanup
	}()

	return parse(file)
}

// parse builds the symbol set from kallsyms content.
// Lines are "address type name [module]".
func parse(r io.Reader) (*Ksyms, error) {
	k := &Ksyms{syms: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		k.syms[fields[2]] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading kallsyms: %w", err)
	}

	return k, nil
}

// Has reports whether the kernel exports the named symbol.
func (k *Ksyms) Has(name string) bool {
	_, ok := k.syms[name]
	return ok
}

// Public domain.

// Package spice holds the kernel pool, the process-wide list of loaded SPICE
// kernels.
//
// The pool is normally the one inside the SPICE library.  Go programs built
// with the cspice tag use CSPICE through cgo.  Without the tag, Default
// returns a Registry, which keeps the same bookkeeping in Go: it identifies
// and records furnished kernels and expands meta-kernels, but it does not
// read kernel data.
package spice

import (
	"fmt"
	"strings"
)

// Kernel types as reported by Kdata.
const (
	SPK  = "SPK"
	CK   = "CK"
	PCK  = "PCK"
	DSK  = "DSK"
	EK   = "EK"
	Text = "TEXT"
	Meta = "META"
)

// KindAll selects every kernel type in Ktotal and Kdata.
const KindAll = "ALL"

var kinds = []string{SPK, CK, PCK, DSK, EK, Text, Meta}

// KernelInfo describes one loaded kernel.
type KernelInfo struct {
	File   string // path as furnished
	Type   string // one of SPK, CK, PCK, DSK, EK, TEXT, META
	Source string // meta-kernel that furnished File, or ""
	Handle int    // binary kernel handle, 0 for text kernels
}

// Pool is a SPICE kernel pool.
type Pool interface {
	// Furnsh loads a kernel, or for a meta-kernel, the kernels it lists.
	Furnsh(path string) error
	// Unload unloads a kernel, or for a meta-kernel, the kernels it loaded.
	Unload(path string) error
	// Ktotal counts loaded kernels of the given kind.
	Ktotal(kind string) (int, error)
	// Kdata returns the which'th loaded kernel of the given kind, counting
	// from 0 in load order.  The bool result is false when which is out of
	// range.
	Kdata(which int, kind string) (KernelInfo, bool, error)
	// Clear unloads everything.
	Clear() error
}

// kindSet parses a kind list such as "ALL" or "SPK PCK TEXT".
func kindSet(kind string) (map[string]bool, error) {
	s := map[string]bool{}
	for _, k := range strings.Fields(strings.ToUpper(kind)) {
		if k == KindAll {
			for _, a := range kinds {
				s[a] = true
			}
			continue
		}
		ok := false
		for _, a := range kinds {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("spice: unknown kernel kind %q", k)
		}
		s[k] = true
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("spice: empty kernel kind %q", kind)
	}
	return s, nil
}

// Public domain.

//go:build cspice

package spice

/*
#cgo LDFLAGS: -lcspice -lm
#include <stdlib.h>
#include "SpiceUsr.h"
*/
import "C"

import (
	"errors"
	"strings"
	"sync"
	"unsafe"
)

// CSPICE is the kernel pool of the linked CSPICE library.  Build with
// -tags cspice, with CGO_CFLAGS and CGO_LDFLAGS pointing at the toolkit's
// include and lib directories.
type CSPICE struct{}

var cspiceOnce sync.Once

// CSPICE is not thread safe.
var cspiceMu sync.Mutex

// Default returns the process-wide kernel pool.
func Default() Pool {
	cspiceOnce.Do(func() {
		set := C.CString("SET")
		ret := C.CString("RETURN")
		none := C.CString("NULL")
		C.erract_c(set, 0, ret)
		C.errprt_c(set, 0, none)
		C.free(unsafe.Pointer(set))
		C.free(unsafe.Pointer(ret))
		C.free(unsafe.Pointer(none))
	})
	return CSPICE{}
}

// spiceErr converts a signaled SPICE error into a Go error and resets the
// error status.
func spiceErr() error {
	if C.failed_c() == 0 {
		return nil
	}
	const n = 1841
	buf := (*C.SpiceChar)(C.malloc(n))
	defer C.free(unsafe.Pointer(buf))
	opt := C.CString("LONG")
	defer C.free(unsafe.Pointer(opt))
	C.getmsg_c(opt, n, buf)
	C.reset_c()
	return errors.New("spice: " + strings.TrimSpace(C.GoString(buf)))
}

// Furnsh implements Pool.
func (CSPICE) Furnsh(path string) error {
	cspiceMu.Lock()
	defer cspiceMu.Unlock()
	p := C.CString(path)
	defer C.free(unsafe.Pointer(p))
	C.furnsh_c(p)
	return spiceErr()
}

// Unload implements Pool.
func (CSPICE) Unload(path string) error {
	cspiceMu.Lock()
	defer cspiceMu.Unlock()
	p := C.CString(path)
	defer C.free(unsafe.Pointer(p))
	C.unload_c(p)
	return spiceErr()
}

// Ktotal implements Pool.
func (CSPICE) Ktotal(kind string) (int, error) {
	cspiceMu.Lock()
	defer cspiceMu.Unlock()
	k := C.CString(kind)
	defer C.free(unsafe.Pointer(k))
	var n C.SpiceInt
	C.ktotal_c(k, &n)
	return int(n), spiceErr()
}

// Kdata implements Pool.
func (CSPICE) Kdata(which int, kind string) (KernelInfo, bool, error) {
	cspiceMu.Lock()
	defer cspiceMu.Unlock()
	const fileLen, typeLen = 256, 32
	k := C.CString(kind)
	defer C.free(unsafe.Pointer(k))
	file := (*C.SpiceChar)(C.malloc(fileLen))
	defer C.free(unsafe.Pointer(file))
	typ := (*C.SpiceChar)(C.malloc(typeLen))
	defer C.free(unsafe.Pointer(typ))
	src := (*C.SpiceChar)(C.malloc(fileLen))
	defer C.free(unsafe.Pointer(src))
	var handle C.SpiceInt
	var found C.SpiceBoolean
	C.kdata_c(C.SpiceInt(which), k, fileLen, typeLen, fileLen,
		file, typ, src, &handle, &found)
	if err := spiceErr(); err != nil {
		return KernelInfo{}, false, err
	}
	if found == 0 {
		return KernelInfo{}, false, nil
	}
	return KernelInfo{
		File:   C.GoString(file),
		Type:   C.GoString(typ),
		Source: C.GoString(src),
		Handle: int(handle),
	}, true, nil
}

// Clear implements Pool.
func (CSPICE) Clear() error {
	cspiceMu.Lock()
	defer cspiceMu.Unlock()
	C.kclear_c()
	return spiceErr()
}

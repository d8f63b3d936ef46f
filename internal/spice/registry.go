// Public domain.

package spice

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/soniakeys/spicer/internal/kpl"
)

// Registry is a Pool kept in Go.
//
// It follows the bookkeeping rules of the SPICE KEEPER subsystem:  binary
// kernels receive a nonzero handle, furnishing a loaded file again moves it
// to the end of the load order, a meta-kernel is recorded and then each
// file in its KERNELS_TO_LOAD is furnished with the meta-kernel as source,
// and unloading a meta-kernel unloads the files it furnished.
type Registry struct {
	mu     sync.Mutex
	loaded []KernelInfo
	handle int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Furnsh implements Pool.
func (r *Registry) Furnsh(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.furnsh(path, "")
}

func (r *Registry) furnsh(path, source string) error {
	typ, vars, err := identify(path)
	if err != nil {
		return err
	}
	r.unload(path)
	if typ != Meta {
		k := KernelInfo{File: path, Type: typ, Source: source}
		if typ != Text {
			r.handle++
			k.Handle = r.handle
		}
		r.loaded = append(r.loaded, k)
		return nil
	}
	if source != "" {
		return fmt.Errorf("spice: meta-kernel %s furnished by meta-kernel %s",
			path, source)
	}
	files, err := metaFiles(vars)
	if err != nil {
		return fmt.Errorf("spice: meta-kernel %s: %w", path, err)
	}
	r.loaded = append(r.loaded, KernelInfo{File: path, Type: Meta})
	for _, f := range files {
		if err := r.furnsh(f, path); err != nil {
			return err
		}
	}
	return nil
}

// Unload implements Pool.  Unloading a file that is not loaded is not an
// error.
func (r *Registry) Unload(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unload(path)
	return nil
}

func (r *Registry) unload(path string) {
	keep := r.loaded[:0]
	for _, k := range r.loaded {
		if k.File != path && k.Source != path {
			keep = append(keep, k)
		}
	}
	r.loaded = keep
}

// Ktotal implements Pool.
func (r *Registry) Ktotal(kind string) (int, error) {
	ks, err := kindSet(kind)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.loaded {
		if ks[k.Type] {
			n++
		}
	}
	return n, nil
}

// Kdata implements Pool.
func (r *Registry) Kdata(which int, kind string) (KernelInfo, bool, error) {
	ks, err := kindSet(kind)
	if err != nil {
		return KernelInfo{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if which < 0 {
		return KernelInfo{}, false, nil
	}
	for _, k := range r.loaded {
		if !ks[k.Type] {
			continue
		}
		if which == 0 {
			return k, true, nil
		}
		which--
	}
	return KernelInfo{}, false, nil
}

// Clear implements Pool.
func (r *Registry) Clear() error {
	r.mu.Lock()
	r.loaded = nil
	r.mu.Unlock()
	return nil
}

// binary architecture/type ID words
var binaryTypes = map[string]string{
	"DAF/SPK":  SPK,
	"DAF/CK":   CK,
	"DAF/PCK":  PCK,
	"DAS/DSK":  DSK,
	"DAS/EK":   EK,
	"NAIF/DAF": SPK,
	"NAIF/DAS": EK,
}

// identify returns the kernel type of file path.  For text kernels it also
// returns the variables assigned, since a text kernel that assigns
// KERNELS_TO_LOAD is a meta-kernel whatever its ID word.
func identify(path string) (string, kpl.Vars, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	br := bufio.NewReader(f)
	// ID words are in the first 8 bytes of binary kernels and start the
	// first line of text kernels.
	head, err := br.Peek(80)
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	if i := bytes.IndexAny(head, "\r\n\x00"); i >= 0 {
		head = head[:i]
	}
	id := ""
	if w := strings.Fields(string(head)); len(w) > 0 {
		id = w[0]
	}
	if t, ok := binaryTypes[id]; ok {
		return t, nil, nil
	}
	if strings.HasPrefix(id, "DAF/") || strings.HasPrefix(id, "DAS/") {
		return "", nil, fmt.Errorf("spice: %s: unsupported binary kernel %s", path, id)
	}
	b, err := io.ReadAll(br)
	if err != nil {
		return "", nil, err
	}
	if !strings.HasPrefix(id, "KPL/") && !bytes.Contains(b, []byte(`\begindata`)) {
		return "", nil, fmt.Errorf("spice: %s: not a SPICE kernel", path)
	}
	vars, err := kpl.Parse(bytes.NewReader(b))
	if err != nil {
		return "", nil, fmt.Errorf("spice: %s: %w", path, err)
	}
	if id == "KPL/MK" || vars["KERNELS_TO_LOAD"] != nil {
		return Meta, vars, nil
	}
	return Text, vars, nil
}

// metaFiles returns KERNELS_TO_LOAD with PATH_SYMBOLS substituted.
func metaFiles(vars kpl.Vars) ([]string, error) {
	vals := vars.Strings("PATH_VALUES")
	syms := vars.Strings("PATH_SYMBOLS")
	if len(vals) != len(syms) {
		return nil, fmt.Errorf("%d PATH_VALUES for %d PATH_SYMBOLS",
			len(vals), len(syms))
	}
	var pairs []string
	for i, s := range syms {
		pairs = append(pairs, "$"+s, vals[i])
	}
	rep := strings.NewReplacer(pairs...)
	k := vars["KERNELS_TO_LOAD"]
	if k == nil || k.Numbers != nil {
		return nil, fmt.Errorf("KERNELS_TO_LOAD must list file names")
	}
	files := make([]string, len(k.Strings))
	for i, f := range k.Strings {
		files[i] = rep.Replace(f)
	}
	return files, nil
}

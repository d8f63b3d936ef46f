// Public domain.

// Package kernels manages a local copy of the NAIF generic kernels.
//
// A Manager knows a list of kernels by their paths relative to the root of
// the NAIF generic_kernels archive.  It mirrors them under a local root
// directory, downloading any that are missing, and furnishes them to a SPICE
// kernel pool.
package kernels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/soniakeys/spicer/internal/spice"
)

// DownloadRoot is the NAIF generic kernel archive.
const DownloadRoot = "https://naif.jpl.nasa.gov/pub/naif/generic_kernels/"

// GenericKernels lists the kernels needed for planetary body computations
// without spacecraft data: leapseconds, planetary constants, planet masses,
// planetary ephemeris, and the Mars satellite ephemeris.
var GenericKernels = []string{
	LSK,
	PCK,
	Masses,
	"spk/planets/de430.bsp",
	"spk/satellites/mar097.bsp",
}

// Kernels of GenericKernels used on their own.
const (
	LSK    = "lsk/naif0012.tls"
	PCK    = "pck/pck00010.tpc"
	Masses = "pck/de-403-masses.tpc"
)

// EnvRoot names the environment variable that overrides DefaultRoot.
const EnvRoot = "SPICER_KERNELS"

// DefaultRoot returns the local kernel directory: $SPICER_KERNELS if set,
// otherwise spicer/kernels under the user cache directory.
func DefaultRoot() string {
	if r := os.Getenv(EnvRoot); r != "" {
		return r
	}
	if d, err := os.UserCacheDir(); err == nil {
		return filepath.Join(d, "spicer", "kernels")
	}
	return filepath.Join(os.TempDir(), "spicer", "kernels")
}

// Manager mirrors and loads a list of kernels.
type Manager struct {
	Root    string   // local directory mirroring the archive
	BaseURL string   // archive root URL
	Kernels []string // paths relative to Root and BaseURL
	Client  *http.Client
	Pool    spice.Pool
	Log     *zap.Logger
}

// New returns a Manager for GenericKernels under root, downloading from
// DownloadRoot and loading into spice.Default().
func New(root string) *Manager {
	return &Manager{
		Root:    root,
		BaseURL: DownloadRoot,
		Kernels: append([]string(nil), GenericKernels...),
		Client:  http.DefaultClient,
		Pool:    spice.Default(),
		Log:     zap.NewNop(),
	}
}

// Path returns the local path of kernel name.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.Root, filepath.FromSlash(name))
}

// Paths returns the local paths of m.Kernels.
func (m *Manager) Paths() []string {
	p := make([]string, len(m.Kernels))
	for i, k := range m.Kernels {
		p[i] = m.Path(k)
	}
	return p
}

// URL returns the archive URL of kernel name.
func (m *Manager) URL(name string) (string, error) {
	return url.JoinPath(m.BaseURL, name)
}

// Missing returns the kernels of m.Kernels not present under m.Root.
func (m *Manager) Missing() []string {
	var miss []string
	for _, k := range m.Kernels {
		if _, err := os.Stat(m.Path(k)); err != nil {
			miss = append(miss, k)
		}
	}
	return miss
}

// Download fetches kernel name from the archive into its local path,
// replacing any existing copy.
func (m *Manager) Download(ctx context.Context, name string) error {
	src, err := m.URL(name)
	if err != nil {
		return err
	}
	dst := m.Path(name)
	m.log().Info("downloading kernel", zap.String("url", src), zap.String("path", dst))
	n, err := fetch(ctx, m.client(), src, dst)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}
	m.log().Info("downloaded kernel", zap.String("kernel", name),
		zap.String("size", humanize.Bytes(uint64(n))))
	return nil
}

// DownloadAll downloads every kernel of m.Kernels whether present or not.
func (m *Manager) DownloadAll(ctx context.Context) error {
	for _, k := range m.Kernels {
		if err := m.Download(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Check downloads the kernels that are not present locally and returns
// their names.  When all are present it does nothing.
func (m *Manager) Check(ctx context.Context) ([]string, error) {
	var got []string
	for _, k := range m.Missing() {
		m.log().Warn("cannot find generic kernel locally", zap.String("kernel", k))
		if err := m.Download(ctx, k); err != nil {
			return got, err
		}
		got = append(got, k)
	}
	return got, nil
}

// Load checks for the kernels, downloading any missing, then furnishes them
// to the pool in list order.
func (m *Manager) Load(ctx context.Context) error {
	if _, err := m.Check(ctx); err != nil {
		return err
	}
	for _, p := range m.Paths() {
		if err := m.pool().Furnsh(p); err != nil {
			return err
		}
		m.log().Debug("furnished kernel", zap.String("path", p))
	}
	return nil
}

// LoadMasses furnishes the planet masses kernel.
func (m *Manager) LoadMasses() error {
	return m.pool().Furnsh(m.Path(Masses))
}

// Show writes an overview of all kernels loaded in the pool, whether loaded
// by m or not.  Paths under m.Root are shown relative to it.
func (m *Manager) Show(w io.Writer) error {
	n, err := m.pool().Ktotal(spice.KindAll)
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = fmt.Fprintln(w, "No kernels loaded at this time.")
		return err
	}
	fmt.Fprintf(w, "The loaded files are:\n(paths relative to %s)\n\n", m.Root)
	for i := 0; i < n; i++ {
		k, found, err := m.pool().Kdata(i, spice.KindAll)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "Position: %d\nPath: %s\nType: %s\nSource: %s\nHandle: %d\nFound: %t\n\n",
			i, m.rel(k.File), k.Type, m.rel(k.Source), k.Handle, found); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) rel(p string) string {
	if p == "" {
		return ""
	}
	r, err := filepath.Rel(m.Root, p)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return p
	}
	return r
}

func (m *Manager) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return http.DefaultClient
}

func (m *Manager) pool() spice.Pool {
	if m.Pool != nil {
		return m.Pool
	}
	return spice.Default()
}

func (m *Manager) log() *zap.Logger {
	if m.Log != nil {
		return m.Log
	}
	return zap.NewNop()
}

// Public domain.

package kernels_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/spicer/internal/kernels"
	"github.com/soniakeys/spicer/internal/spice"
)

// archive serves small stand-ins for the generic kernels and records the
// paths requested.
type archive struct {
	mu   sync.Mutex
	gets []string
}

var archiveFiles = map[string]string{
	"/lsk/naif0012.tls":          "KPL/LSK\n\\begindata\nDELTET/K = 1.657D-3\nDELTET/DELTA_AT = ( 10, @1972-JAN-1\n 37, @2017-JAN-1 )\n",
	"/pck/pck00010.tpc":          "KPL/PCK\n\\begindata\nBODY399_RADII = ( 6378.1 6378.1 6356.8 )\n",
	"/pck/de-403-masses.tpc":     "KPL/PCK\n\\begindata\nBODY10_GM = 1.3271244004193938E+11\n",
	"/spk/planets/de430.bsp":     "DAF/SPK \x00de430",
	"/spk/satellites/mar097.bsp": "DAF/SPK \x00mar097",
}

func (a *archive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.gets = append(a.gets, r.URL.Path)
	a.mu.Unlock()
	body, ok := archiveFiles[strings.TrimPrefix(r.URL.Path, "/generic_kernels")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(body))
}

func (a *archive) requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.gets...)
}

func newManager(t *testing.T) (*kernels.Manager, *archive) {
	t.Helper()
	a := &archive{}
	srv := httptest.NewServer(a)
	t.Cleanup(srv.Close)
	m := kernels.New(t.TempDir())
	m.BaseURL = srv.URL + "/generic_kernels/"
	m.Client = srv.Client()
	m.Pool = spice.NewRegistry()
	return m, a
}

func TestCheckDownloadsMissing(t *testing.T) {
	m, a := newManager(t)
	ctx := context.Background()
	require.Len(t, m.Missing(), len(kernels.GenericKernels))

	got, err := m.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, kernels.GenericKernels, got)
	assert.Len(t, a.requests(), len(kernels.GenericKernels))
	assert.Empty(t, m.Missing())
	for _, k := range kernels.GenericKernels {
		b, err := os.ReadFile(m.Path(k))
		require.NoError(t, err)
		assert.Equal(t, archiveFiles["/"+k], string(b))
	}

	// all present, nothing fetched
	got, err = m.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, a.requests(), len(kernels.GenericKernels))
}

func TestCheckOnlyMissing(t *testing.T) {
	m, a := newManager(t)
	for _, k := range kernels.GenericKernels[:3] {
		p := m.Path(k)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("local copy"), 0o644))
	}
	got, err := m.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kernels.GenericKernels[3:], got)
	assert.Equal(t, []string{
		"/generic_kernels/spk/planets/de430.bsp",
		"/generic_kernels/spk/satellites/mar097.bsp",
	}, a.requests())
	b, err := os.ReadFile(m.Path(kernels.LSK))
	require.NoError(t, err)
	assert.Equal(t, "local copy", string(b))
}

func TestDownloadAllReplaces(t *testing.T) {
	m, a := newManager(t)
	p := m.Path(kernels.LSK)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("stale"), 0o644))
	require.NoError(t, m.DownloadAll(context.Background()))
	assert.Len(t, a.requests(), len(kernels.GenericKernels))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, archiveFiles["/"+kernels.LSK], string(b))
}

func TestDownloadNotFound(t *testing.T) {
	m, _ := newManager(t)
	m.Kernels = []string{"lsk/naif9999.tls"}
	_, err := m.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	// no partial or temporary file left behind
	entries, err := os.ReadDir(filepath.Dir(m.Path("lsk/naif9999.tls")))
	if err == nil {
		assert.Empty(t, entries)
	}
	assert.Equal(t, m.Kernels, m.Missing())
}

func TestLoadAndShow(t *testing.T) {
	m, _ := newManager(t)
	var out bytes.Buffer
	require.NoError(t, m.Show(&out))
	assert.Equal(t, "No kernels loaded at this time.\n", out.String())

	require.NoError(t, m.Load(context.Background()))
	n, err := m.Pool.Ktotal(spice.KindAll)
	require.NoError(t, err)
	assert.Equal(t, len(kernels.GenericKernels), n)
	k, found, err := m.Pool.Kdata(3, spice.KindAll)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m.Path("spk/planets/de430.bsp"), k.File)
	assert.Equal(t, spice.SPK, k.Type)

	out.Reset()
	require.NoError(t, m.Show(&out))
	s := out.String()
	assert.True(t, strings.HasPrefix(s, "The loaded files are:\n"))
	assert.Contains(t, s, "Position: 0\nPath: "+filepath.FromSlash(kernels.LSK)+"\nType: TEXT\nSource: \nHandle: 0\nFound: true\n")
	assert.Contains(t, s, "Path: "+filepath.FromSlash("spk/satellites/mar097.bsp")+"\nType: SPK\n")
}

func TestLoadMasses(t *testing.T) {
	m, _ := newManager(t)
	require.Error(t, m.LoadMasses())
	_, err := m.Check(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.LoadMasses())
	k, found, err := m.Pool.Kdata(0, "TEXT")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m.Path(kernels.Masses), k.File)
}

func TestDefaultRootEnv(t *testing.T) {
	t.Setenv(kernels.EnvRoot, "/data/kernels")
	assert.Equal(t, "/data/kernels", kernels.DefaultRoot())
}

func TestURL(t *testing.T) {
	m := kernels.New("/k")
	u, err := m.URL(kernels.LSK)
	require.NoError(t, err)
	assert.Equal(t, "https://naif.jpl.nasa.gov/pub/naif/generic_kernels/lsk/naif0012.tls", u)
}

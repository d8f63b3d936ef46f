// Public domain.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/spicer/internal/config"
)

const mu69 = `
surface: "2486958"
center: "2486958"
frame: MU69_FIXED
lsk: /data/nh/lsk/naif0012.tls
kernels: /data/nh/ggi/nh_mu69.tpc
mkdsk: /opt/cspice/exe/mkdsk
kernel_root: /data/generic
setup:
  start: JD 2451545.0
  min_latitude: -45
  max_latitude: 0
  fine_voxel_scale: 2.5
`

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(mu69), "mu69.yaml")
	require.NoError(t, err)
	assert.Equal(t, "2486958", c.Surface)
	assert.Equal(t, "MU69_FIXED", c.Frame)
	assert.Equal(t, "/opt/cspice/exe/mkdsk", c.Mkdsk)
	assert.Equal(t, "/data/generic", c.KernelRoot)
	assert.Empty(t, c.DownloadURL)
	assert.Equal(t, "JD 2451545.0", c.Setup.Start)
	require.NotNil(t, c.Setup.MinLatitude)
	assert.Equal(t, -45.0, *c.Setup.MinLatitude)
	require.NotNil(t, c.Setup.MaxLatitude)
	assert.Zero(t, *c.Setup.MaxLatitude)
	assert.Nil(t, c.Setup.MinLongitude)
	assert.Equal(t, 2.5, c.Setup.FineVoxelScale)
	assert.Zero(t, c.Setup.CoarseVoxelScale)
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		"surface: [1, 2",
		"setup:\n  coarse_voxel_scale: -1\n",
		"setup: 3\n",
	} {
		_, err := config.Parse([]byte(bad), "bad.yaml")
		assert.Error(t, err, bad)
	}
}

func TestRead(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(mu69), 0o644))
	c, err := config.Read(fn)
	require.NoError(t, err)
	assert.Equal(t, "2486958", c.Center)

	// named file must exist
	_, err = config.Read(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReadDefaultMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	c, err := config.Read("")
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, c)
}

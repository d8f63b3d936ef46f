// Public domain.

// Package config reads the YAML defaults file shared by obj2dsk and spkern.
//
// Every field is optional.  Command line flags take precedence over the
// file, and the file over built in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the defaults file in DefaultDir.
const FileName = "spicer.yaml"

// Config holds user defaults.
type Config struct {
	// mkdsk setup parameters
	Surface string `yaml:"surface"`
	Center  string `yaml:"center"`
	Frame   string `yaml:"frame"`
	LSK     string `yaml:"lsk"`
	Kernels string `yaml:"kernels"`

	// mkdsk program
	Mkdsk string `yaml:"mkdsk"`

	// generic kernel mirror
	KernelRoot  string `yaml:"kernel_root"`
	DownloadURL string `yaml:"download_url"`

	Setup Setup `yaml:"setup"`
}

// Setup overrides fixed values of the mkdsk setup file.  Zero values leave
// the fixed value in place.
type Setup struct {
	Start            string   `yaml:"start"` // RFC 3339, 2006-01-02, or "JD n"
	Stop             string   `yaml:"stop"`
	MinLatitude      *float64 `yaml:"min_latitude"` // degrees
	MaxLatitude      *float64 `yaml:"max_latitude"`
	MinLongitude     *float64 `yaml:"min_longitude"`
	MaxLongitude     *float64 `yaml:"max_longitude"`
	FineVoxelScale   float64  `yaml:"fine_voxel_scale"`
	CoarseVoxelScale int      `yaml:"coarse_voxel_scale"`
}

// DefaultPath returns the path of the defaults file under the user
// configuration directory, or "" if there is none.
func DefaultPath() string {
	d, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(d, "spicer", FileName)
}

// Read reads a defaults file.
//
// If fn is empty, the file at DefaultPath is read if it exists, and an empty
// Config is returned if it does not.  A file named explicitly must exist.
func Read(fn string) (*Config, error) {
	required := fn != ""
	if !required {
		fn = DefaultPath()
		if fn == "" {
			return &Config{}, nil
		}
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return Parse(b, fn)
}

// Parse parses YAML defaults.  Name is used in error messages.
func Parse(b []byte, name string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if c.Setup.FineVoxelScale < 0 || c.Setup.CoarseVoxelScale < 0 {
		return nil, fmt.Errorf("%s: voxel scales must be positive", name)
	}
	return &c, nil
}

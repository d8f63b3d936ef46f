// Public domain.

// Package o2dprog is the obj2dsk program.
package o2dprog

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/unit"
	"go.uber.org/zap"

	"github.com/soniakeys/spicer/internal/config"
	"github.com/soniakeys/spicer/internal/dsksetup"
	"github.com/soniakeys/spicer/internal/kernels"
	"github.com/soniakeys/spicer/internal/logging"
	"github.com/soniakeys/spicer/internal/mkdsk"
	"github.com/soniakeys/spicer/internal/objclean"
)

const versionString = "obj2dsk version 0.3 Go source."
const copyrightString = "Public domain."

// Built in defaults for the setup parameters, used when neither a flag nor
// the defaults file gives a value.
const (
	defSurface = "2486958"
	defCenter  = "2486958"
	defFrame   = "MU69_FIXED"
	defOutput  = ".bds"
)

// Suffixes replacing the input file suffix to name intermediate files.
const (
	cleanedSuffix = ".obj2dsk.cleaned.obj"
	setupSuffix   = ".obj2dsk.mkdsksetup"
)

// errUsage reports a command line error after usage has been shown.
var errUsage = errors.New("usage")

// Main runs obj2dsk with the process command line.
func Main() {
	defer exit.Handler()
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	var ee *mkdsk.ExitError
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	case errors.As(err, &ee):
		// pass along mkdsk's own status
		log.Println(err)
		os.Exit(ee.Status())
	default:
		exit.Log(err)
	}
}

type commandLine struct {
	output, surface, center, frame, lsk, kernels string
	setupFile, configFile, mkdsk                 string
	keep, dryRun, fetch, verbose, version        bool
	obj                                          string
	set                                          map[string]bool // flags given
}

func parseCommandLine(args []string, stderr io.Writer) (*commandLine, error) {
	var cl commandLine
	fs := flag.NewFlagSet("obj2dsk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	// long and short forms share a variable; alias maps both to the long
	// form so cl.set can be consulted by one name.
	alias := map[string]string{}
	str := func(p *string, short, long, value string) {
		fs.StringVar(p, long, value, "")
		alias[long] = long
		if short != "" {
			fs.StringVar(p, short, value, "")
			alias[short] = long
		}
	}
	boolean := func(p *bool, short, long string) {
		fs.BoolVar(p, long, false, "")
		alias[long] = long
		if short != "" {
			fs.BoolVar(p, short, false, "")
			alias[short] = long
		}
	}
	str(&cl.output, "o", "output", defOutput)
	str(&cl.surface, "s", "surface", defSurface)
	str(&cl.center, "c", "center", defCenter)
	str(&cl.frame, "f", "frame", defFrame)
	str(&cl.lsk, "l", "lsk", "")
	str(&cl.kernels, "", "kernels", "")
	str(&cl.setupFile, "m", "mkdsksetup", "")
	str(&cl.configFile, "", "config", "")
	str(&cl.mkdsk, "", "mkdsk", "")
	boolean(&cl.keep, "k", "keep")
	boolean(&cl.dryRun, "n", "dry-run")
	boolean(&cl.fetch, "", "fetch")
	boolean(&cl.verbose, "v", "verbose")
	boolean(&cl.version, "", "version")
	fs.Usage = func() {
		io.WriteString(stderr, `
Usage: obj2dsk [options] <file.obj>    make a DSK file from a .obj file
       obj2dsk -version                 display version and copyright

Cleans the .obj file, writes an mkdsk setup file, and runs mkdsk.

Options:
  -o, -output <file|.suffix>  output DSK file.  A value beginning with '.' is
                              a suffix replacing the .obj file's suffix.
                              (default `+defOutput+`)
  -s, -surface <name>         SURFACE_NAME (default `+defSurface+`)
  -c, -center <name>          CENTER_NAME (default `+defCenter+`)
  -f, -frame <name>           REF_FRAME_NAME (default `+defFrame+`)
  -l, -lsk <file>             LEAPSECONDS_FILE
                              (default <kernel root>/`+kernels.LSK+`)
  -kernels <file>             KERNELS_TO_LOAD
                              (default <kernel root>/`+kernels.PCK+`)
  -k, -keep                   keep intermediate files
  -m, -mkdsksetup <file>      use an existing mkdsk setup file.  -s, -c, -f,
                              -l, -kernels, and -n are ignored.
  -n, -dry-run                print the mkdsk setup file and exit
  -mkdsk <program>            mkdsk program (default mkdsk, found in PATH)
  -fetch                      download the generic LSK and PCK if missing
  -config <file>              YAML defaults file
  -v, -verbose                report progress
`)
		if p := config.DefaultPath(); p != "" {
			io.WriteString(stderr, `
Default:
  -config=`+p+`
  kernel root=`+kernels.DefaultRoot()+"\n")
		}
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errUsage
	}
	cl.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { cl.set[alias[f.Name]] = true })
	if cl.version {
		return &cl, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errUsage
	}
	cl.obj = fs.Arg(0)
	return &cl, nil
}

// merge fills values not given on the command line from the defaults file
// and the kernel root.  It returns the kernel root.
func (cl *commandLine) merge(c *config.Config) string {
	fill := func(p *string, name, v string) {
		if !cl.set[name] && v != "" {
			*p = v
		}
	}
	fill(&cl.surface, "surface", c.Surface)
	fill(&cl.center, "center", c.Center)
	fill(&cl.frame, "frame", c.Frame)
	fill(&cl.lsk, "lsk", c.LSK)
	fill(&cl.kernels, "kernels", c.Kernels)
	fill(&cl.mkdsk, "mkdsk", c.Mkdsk)
	root := c.KernelRoot
	if root == "" {
		root = kernels.DefaultRoot()
	}
	if cl.lsk == "" {
		cl.lsk = filepath.Join(root, filepath.FromSlash(kernels.LSK))
	}
	if cl.kernels == "" {
		cl.kernels = filepath.Join(root, filepath.FromSlash(kernels.PCK))
	}
	return root
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cl, err := parseCommandLine(args, stderr)
	if err != nil {
		return err
	}
	if cl.version {
		fmt.Fprintln(stdout, versionString)
		fmt.Fprintln(stdout, copyrightString)
		return nil
	}
	lg := logging.New(stderr, cl.verbose)
	defer lg.Sync()

	cfg, err := config.Read(cl.configFile)
	if err != nil {
		return err
	}
	root := cl.merge(cfg)

	// with -m the supplied setup file is used and -n is ignored
	var setup dsksetup.Setup
	if cl.setupFile == "" {
		if setup, err = newSetup(cl, cfg.Setup); err != nil {
			return err
		}
		if cl.dryRun {
			_, err = io.WriteString(stdout, setup.Render())
			return err
		}
	}

	if cl.fetch {
		m := kernels.New(root)
		m.Kernels = []string{kernels.LSK, kernels.PCK}
		if cfg.DownloadURL != "" {
			m.BaseURL = cfg.DownloadURL
		}
		m.Log = lg
		if _, err := m.Check(ctx); err != nil {
			return err
		}
	}

	cleaned := withSuffix(cl.obj, cleanedSuffix)
	output := cl.output
	if isSuffix(output) {
		output = withSuffix(cl.obj, output)
	}

	// clean the .obj file
	st, err := objclean.CleanFile(cleaned, cl.obj)
	if err != nil {
		return err
	}
	lg.Info("cleaned mesh", zap.String("file", cleaned),
		zap.Int("vertices", st.Vertices), zap.Int("plates", st.Faces),
		zap.Int("dropped lines", st.Dropped))
	if st.NonTriangle > 0 {
		lg.Warn("mesh has faces that are not triangles; mkdsk expects triangular plates",
			zap.Int("faces", st.NonTriangle))
	}

	// setup file
	setupFile := cl.setupFile
	if setupFile == "" {
		setupFile = withSuffix(cl.obj, setupSuffix)
		if err := setup.WriteFile(setupFile); err != nil {
			return err
		}
		lg.Info("wrote setup file", zap.String("file", setupFile),
			zap.String("coverage", setup.Bounds()))
	}

	r := mkdsk.Runner{Path: cl.mkdsk, Stdout: stdout, Stderr: stderr, Log: lg}
	if err := r.Run(ctx, setupFile, cleaned, output); err != nil {
		return err
	}

	if !cl.keep {
		if err := os.Remove(cleaned); err != nil {
			return err
		}
		if cl.setupFile == "" {
			if err := os.Remove(setupFile); err != nil {
				return err
			}
		}
	}
	return nil
}

// newSetup builds the setup file content from the command line and the
// overrides of the defaults file.
func newSetup(cl *commandLine, o config.Setup) (dsksetup.Setup, error) {
	s := dsksetup.Default(dsksetup.Params{
		Surface: cl.surface,
		Center:  cl.center,
		Frame:   cl.frame,
		LSK:     cl.lsk,
		Kernels: cl.kernels,
	})
	var err error
	if o.Start != "" {
		if s.Start, err = dsksetup.ParseTime(o.Start); err != nil {
			return s, err
		}
	}
	if o.Stop != "" {
		if s.Stop, err = dsksetup.ParseTime(o.Stop); err != nil {
			return s, err
		}
	}
	if !s.Start.Before(s.Stop) {
		return s, fmt.Errorf("setup start %s is not before stop %s",
			dsksetup.FormatTime(s.Start), dsksetup.FormatTime(s.Stop))
	}
	deg := func(a *unit.Angle, d *float64) {
		if d != nil {
			*a = unit.AngleFromDeg(*d)
		}
	}
	deg(&s.MinLat, o.MinLatitude)
	deg(&s.MaxLat, o.MaxLatitude)
	deg(&s.MinLon, o.MinLongitude)
	deg(&s.MaxLon, o.MaxLongitude)
	if o.FineVoxelScale > 0 {
		s.FineVoxelScale = o.FineVoxelScale
	}
	if o.CoarseVoxelScale > 0 {
		s.CoarseVoxelScale = o.CoarseVoxelScale
	}
	return s, nil
}

// isSuffix reports whether an -output value names a suffix rather than a
// file.  "./x.bds" and "../x.bds" are files.
func isSuffix(s string) bool {
	return strings.HasPrefix(s, ".") && !strings.ContainsAny(s, `/\`)
}

// withSuffix replaces the suffix of the last element of p, or appends one
// if there is none.
func withSuffix(p, suffix string) string {
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	if ext == base {
		ext = "" // a dot file such as ".obj" has no suffix
	}
	return strings.TrimSuffix(p, ext) + suffix
}

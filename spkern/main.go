// Public domain.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/soniakeys/exit"

	"github.com/soniakeys/spicer/internal/config"
	"github.com/soniakeys/spicer/internal/kernels"
	"github.com/soniakeys/spicer/internal/logging"
)

const versionString = "spkern version 0.2 Go source."
const copyrightString = "Public domain."

var errUsage = errors.New("usage")

func main() {
	defer exit.Handler()
	switch err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		exit.Log(err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("spkern", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", "", "")
	baseURL := fs.String("url", "", "")
	cfgFile := fs.String("config", "", "")
	verbose := fs.Bool("v", false, "")
	vers := fs.Bool("version", false, "")
	fs.Usage = func() {
		io.WriteString(stderr, `
Usage: spkern [options] paths             list local kernel paths
       spkern [options] check             download missing kernels
       spkern [options] download [name]   download kernels, present or not
       spkern [options] load              check, load, and list loaded kernels
       spkern [options] masses            load the masses kernel and list
       spkern [options] show <file>...    load kernel files and list
       spkern -version                    display version and copyright

Options:
       -root <dir>
       -url <url>
       -config <file>
       -v

Default:
       -root=`+kernels.DefaultRoot()+`
       -url=`+kernels.DownloadRoot+"\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if *vers {
		fmt.Fprintln(stdout, versionString)
		fmt.Fprintln(stdout, copyrightString)
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	cfg, err := config.Read(*cfgFile)
	if err != nil {
		return err
	}
	switch {
	case *root != "":
	case cfg.KernelRoot != "":
		*root = cfg.KernelRoot
	default:
		*root = kernels.DefaultRoot()
	}
	lg := logging.New(stderr, *verbose)
	defer lg.Sync()
	m := kernels.New(*root)
	m.Log = lg
	switch {
	case *baseURL != "":
		m.BaseURL = *baseURL
	case cfg.DownloadURL != "":
		m.BaseURL = cfg.DownloadURL
	}

	cmd, names := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "paths":
		missing := map[string]bool{}
		for _, k := range m.Missing() {
			missing[k] = true
		}
		for _, k := range m.Kernels {
			status := "present"
			if missing[k] {
				status = "missing"
			}
			fmt.Fprintf(stdout, "%-8s %s\n", status, m.Path(k))
		}
		return nil
	case "check":
		got, err := m.Check(ctx)
		for _, k := range got {
			fmt.Fprintln(stdout, "downloaded", m.Path(k))
		}
		return err
	case "download":
		if len(names) > 0 {
			m.Kernels = names
		}
		return m.DownloadAll(ctx)
	case "load":
		if err := m.Load(ctx); err != nil {
			return err
		}
	case "masses":
		if err := m.LoadMasses(); err != nil {
			return err
		}
	case "show":
		if len(names) == 0 {
			fs.Usage()
			return errUsage
		}
		for _, n := range names {
			if err := m.Pool.Furnsh(n); err != nil {
				return err
			}
		}
	default:
		fs.Usage()
		return errUsage
	}
	return m.Show(stdout)
}

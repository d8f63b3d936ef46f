// Public domain.

// Package mkdsk runs the SPICE toolkit program mkdsk.
package mkdsk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// DefaultPath is the program run when Runner.Path is empty.  It is looked up
// in PATH.
const DefaultPath = "mkdsk"

// Runner runs mkdsk.
type Runner struct {
	Path   string    // program, DefaultPath if empty
	Stdout io.Writer // os.Stdout if nil
	Stderr io.Writer // os.Stderr if nil
	Log    *zap.Logger
}

// ExitError reports mkdsk exiting with nonzero status.
type ExitError struct {
	Path string
	Code int
	Err  *exec.ExitError
}

func (e *ExitError) Error() string {
	if e.Code < 0 && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Path, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Status returns an exit status for the caller to pass on.  It is Code, or 1
// when mkdsk was stopped by a signal and has no exit code of its own.
func (e *ExitError) Status() int {
	if e.Code <= 0 {
		return 1
	}
	return e.Code
}

// Args returns the mkdsk command line arguments for a run.
func Args(setup, input, output string) []string {
	return []string{"-setup", setup, "-input", input, "-output", output}
}

// Program returns the resolved path of the program to run.
func (r *Runner) Program() (string, error) {
	p := r.Path
	if p == "" {
		p = DefaultPath
	}
	return exec.LookPath(p)
}

// Run runs mkdsk with the setup file, plate file input, and DSK file output.
// Output of the program goes to r.Stdout and r.Stderr.
func (r *Runner) Run(ctx context.Context, setup, input, output string) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	prog, err := r.Program()
	if err != nil {
		return err
	}
	c := exec.CommandContext(ctx, prog, Args(setup, input, output)...)
	c.Stdout = r.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	c.Stderr = r.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	log.Info("running mkdsk", zap.String("program", prog),
		zap.Strings("args", c.Args[1:]))
	err = c.Run()
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Path: prog, Code: ee.ExitCode(), Err: ee}
	}
	if err != nil {
		return err
	}
	log.Info("mkdsk finished", zap.String("output", output))
	return nil
}

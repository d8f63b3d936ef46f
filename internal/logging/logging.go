// Public domain.

// Package logging builds the console logger used by the spicer commands.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing human readable lines to w.  Only warnings and
// errors are written unless verbose is set.
func New(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	ec.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.AddSync(w), level)
	return zap.New(core)
}

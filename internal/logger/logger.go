// ABOUTME: Leveled diagnostic logging for the gym tool.
// ABOUTME: Wraps op/go-logging with a single stderr backend.
package logger

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

const (
	module     = "gym"
	timeFormat = "2006/01/02 15:04:05"
)

var logger = logging.MustGetLogger(module)

func init() {
	InitLogger(logging.INFO, os.Stderr)
}

// InitLogger replaces the backend with one writing to w at the given level.
func InitLogger(level logging.Level, w io.Writer) {
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, newFormatter())
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, module)
	logger.SetBackend(leveled)
}

// SetVerbose toggles DEBUG output on stderr.
func SetVerbose(verbose bool) {
	if verbose {
		InitLogger(logging.DEBUG, os.Stderr)
		return
	}
	InitLogger(logging.INFO, os.Stderr)
}

func newFormatter() logging.Formatter {
	return logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level:.4s} %{message}`)
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

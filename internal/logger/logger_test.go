// ABOUTME: Tests for the logging wrapper.
// ABOUTME: Verifies level filtering and message formatting.
package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/op/go-logging"
)

func TestInitLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(logging.WARNING, &buf)
	t.Cleanup(func() { InitLogger(logging.INFO, os.Stderr) })

	Infof("hidden %d", 1)
	Warningf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("INFO message leaked at WARNING level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("expected warning in output, got %q", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Errorf("expected level name in output, got %q", out)
	}
}

func TestDebugOnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(logging.DEBUG, &buf)
	t.Cleanup(func() { InitLogger(logging.INFO, os.Stderr) })

	Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

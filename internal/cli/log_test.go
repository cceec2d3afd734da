package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestVerbosityFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("step", "n", 1)
	if buf.Len() != 0 {
		t.Errorf("debug at info level wrote %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("step", "n", 1)
	if !strings.Contains(buf.String(), "step n=1") {
		t.Errorf("log = %q, want the step record", buf.String())
	}
}

func TestLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("solved")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} INFO solved`).MatchString(buf.String()) {
		t.Errorf("log = %q, want an HH:MM:SS.cc timestamp", buf.String())
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Generated nest: 8 rooms, 11 tunnels")

	if !regexp.MustCompile(`Generated nest: 8 rooms, 11 tunnels \(\d+(\.\d+)?(ns|µs|ms|s)\)`).MatchString(buf.String()) {
		t.Errorf("log = %q, want the message with its duration", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield the default logger")
	}
	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("attached logger not returned")
	}
}

// The root command attaches the CLI logger, so commands warn through it.
func TestSolveWarnsThroughCommandLogger(t *testing.T) {
	testEnv(t)
	path := writeNest(t, "split.txt", "f=1\nA\nB\nSv - A\nB - Sd\n")

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"solve", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("solve error = %v", err)
	}

	if !strings.Contains(logs.String(), "nest not cleared") || !strings.Contains(logs.String(), "stalled") {
		t.Errorf("log = %q, want the stalled warning", logs.String())
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setCLI replaces the command line options for the duration of a test.
func setCLI(t *testing.T, f func()) {
	t.Helper()
	old := cli
	cli.Fmt = "%g"
	f()
	t.Cleanup(func() { cli = old })
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	cases := []struct {
		name string
		opts func()
		src  string
		out  string
		ok   bool
	}{
		{"plain", func() {}, "2*(10-2^3+1)!", "12\n", true},
		{"echo", func() { cli.Echo = true }, "8-3-2", "((8 - 3) - 2) = 3\n", true},
		{"fmt", func() { cli.Fmt = "%.3f" }, "1/8", "0.125\n", true},
		{"prec", func() { cli.Prec = 128 }, "1/4", "0.25\n", true},
		{"parse", func() {}, "1+", "1+: 3: expected expression at end\n", false},
		{"domain", func() {}, "(-1)!", "-1 outside domain of !\n", false},
		{"bigdomain", func() { cli.Prec = 64 }, "ln(0-1)", "-1 outside domain of ln\n", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			setCLI(t, c.opts)
			var b bytes.Buffer
			ok := run(discard(), &b, c.src)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.out, b.String())
		})
	}
}

func TestCheckFmt(t *testing.T) {
	cases := []struct {
		format string
		prec   uint
		ok     bool
	}{
		{"%g", 0, true},
		{"%.3f", 0, true},
		{"%v", 0, true},
		{"%g", 128, true},
		{"%.40g", 128, true},
		{"%d", 0, false},
		{"%d", 128, false},
		{"%s", 0, false},
		{"%g %g", 0, false},
		{"result", 0, false},
	}
	for _, c := range cases {
		t.Run(c.format, func(t *testing.T) {
			err := checkFmt(c.format, c.prec)
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRunTokens(t *testing.T) {
	setCLI(t, func() { cli.Tokens = true })
	var b bytes.Buffer
	require.True(t, run(discard(), &b, "1+2"))
	out := b.String()
	assert.Contains(t, out, `Kind: "Plus"`)
	assert.Contains(t, out, `Text: "2"`)
	assert.True(t, strings.HasSuffix(out, "3\n"), "result missing from %q", out)
}

func TestRunTime(t *testing.T) {
	setCLI(t, func() { cli.Time = true })
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	var b bytes.Buffer
	require.True(t, run(logger, &b, "2^3"))
	assert.Equal(t, "8\n", b.String())
	assert.Contains(t, logs.String(), "msg=timing")
	assert.Contains(t, logs.String(), "depth=2")
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("1+2\n\n  \n 3*4 \r\nsin pi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1+2", "3*4", "sin pi"}, lines)
}

func TestInputs(t *testing.T) {
	name := filepath.Join(t.TempDir(), "exprs")
	require.NoError(t, os.WriteFile(name, []byte("1\n2\n"), 0o644))
	srcs, err := inputs(name, []string{"3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, srcs)

	srcs, err = inputs("", []string{"4", "5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, srcs)

	_, err = inputs(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	name := filepath.Join(t.TempDir(), "log.json")
	var text bytes.Buffer
	logger, closer, err := newLogger(&text, slog.LevelInfo, name)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "expr", "1+1")
	require.NoError(t, closer())

	assert.NotContains(t, text.String(), "hidden")
	assert.Contains(t, text.String(), "msg=shown")

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "1+1", rec["expr"])
}

func TestNewLoggerNoFile(t *testing.T) {
	var text bytes.Buffer
	logger, closer, err := newLogger(&text, slog.LevelWarn, "")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NoError(t, closer())
	assert.NotContains(t, text.String(), "hidden")
	assert.Contains(t, text.String(), "msg=shown")
}

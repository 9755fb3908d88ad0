package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smake/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	lg.Info("Executing make for a.txt")
	lg.Warn("run cancelled")

	assert.Equal(t, "Executing make for a.txt\n! run cancelled\n", buf.String())
}

func TestLogger_SetVerbose(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetVerbose(true)
	lg.Debug("deps-graph: node a")
	assert.Equal(t, "  deps-graph: node a\n", buf.String())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("deps-graph: node b")
	assert.Empty(t, buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(zerr.Wrap(
		zerr.Wrap(errors.New("exec: \"sisho\": executable file not found in $PATH"), "failed to start sisho"),
		"make: a.txt",
	))

	g := goldie.New(t)
	g.Assert(t, "error_chain_zerr", buf.Bytes())
}

func TestLogger_Error_Stdlib(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := errors.New("connection refused")
	lg.Error(fmt.Errorf("failed to read input: %w", inner))

	assert.Equal(t, "✗ Error: failed to read input: connection refused\n", buf.String())
}

func TestLogger_Error_Multiline(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal"))

	g := goldie.New(t)
	g.Assert(t, "error_multiline", buf.Bytes())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("started")
	lg.Error(zerr.Wrap(errors.New("boom"), "make: a.txt"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "started", info["msg"])

	var failed map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &failed))
	assert.Equal(t, "ERROR", failed["level"])
	assert.Equal(t, "operation failed", failed["msg"])
	assert.Contains(t, string(lines[1]), "boom")
}

func TestLogger_SetJSON_PreservesOutput(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.SetJSON(false)

	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	lg, _ := newTestLogger(t)
	assert.NotPanics(t, func() { lg.SetOutput(nil) })
}

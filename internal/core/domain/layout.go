package domain

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "smake.yaml"

	// ToolName is the base name of the external build tool binary.
	ToolName = "sisho"

	// DefaultWaitDelay is how long a cancelled process may take to exit after the interrupt.
	DefaultWaitDelay = 5 * time.Second

	// LogEnvVar names a file that receives logs while the TUI owns the terminal.
	LogEnvVar = "SMAKE_LOG"

	// ToolEnvVar overrides the configured tool path.
	ToolEnvVar = "SMAKE_TOOL"

	// OutputEnvVar overrides the configured output mode.
	OutputEnvVar = "SMAKE_OUTPUT"

	// PrivateFilePerm is the permission for log files (rw-------).
	PrivateFilePerm = 0o600
)

// Output modes.
const (
	OutputAuto   = "auto"
	OutputTUI    = "tui"
	OutputLinear = "linear"
)

// ValidOutputMode reports whether mode is one of the known output modes.
func ValidOutputMode(mode string) bool {
	switch mode {
	case OutputAuto, OutputTUI, OutputLinear:
		return true
	default:
		return false
	}
}

// Config holds the resolved settings of a run.
type Config struct {
	// ToolPath is the external build tool executable.
	ToolPath string
	// Root is the project root; targets are made relative to it.
	Root string
	// OutputMode is "auto", "tui" or "linear".
	OutputMode string
	// WaitDelay bounds the time between interrupt and kill on cancellation.
	WaitDelay time.Duration
	// LogDepsGraph forwards dependency graph refresh output to the debug log.
	LogDepsGraph bool
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig(root string) Config {
	return Config{
		ToolPath:     DefaultToolPath(),
		Root:         root,
		OutputMode:   OutputAuto,
		WaitDelay:    DefaultWaitDelay,
		LogDepsGraph: true,
	}
}

// DefaultToolPath returns the per-user install location of the tool, $HOME/go/bin/sisho.
// It falls back to the bare tool name, resolved through PATH, when there is no home directory.
func DefaultToolPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ToolName
	}
	return filepath.Join(home, "go", "bin", ToolName)
}

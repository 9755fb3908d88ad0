package domain

import "go.trai.ch/zerr"

var (
	// ErrNoTargetsSpecified is returned when a run request names no targets.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrPathResolution is returned when a target cannot be expressed relative to the project root.
	ErrPathResolution = zerr.New("target is not under the project root")

	// ErrSpawnFailed is returned when the external tool process could not be started.
	ErrSpawnFailed = zerr.New("failed to start process")

	// ErrNonZeroExit marks a panel whose process ran but reported failure.
	ErrNonZeroExit = zerr.New("process exited with non-zero status")

	// ErrCancelled is returned when the user aborts a running queue.
	ErrCancelled = zerr.New("run cancelled")

	// ErrPromptCancelled is returned when the instructions prompt is dismissed without a value.
	ErrPromptCancelled = zerr.New("prompt cancelled")

	// ErrTargetsFailed is returned when at least one target of a run did not succeed.
	ErrTargetsFailed = zerr.New("one or more targets failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInputReadFailed is returned when the instructions cannot be read from a file or stdin.
	ErrInputReadFailed = zerr.New("failed to read input")

	// ErrInvalidOutputMode is returned when an output mode flag names no known renderer.
	ErrInvalidOutputMode = zerr.New("invalid output mode")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")
)

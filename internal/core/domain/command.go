package domain

import (
	"slices"
	"strings"
	"time"
)

// CommandSpec is the argument vector and working directory of one subprocess invocation.
// It is immutable once built.
type CommandSpec struct {
	args      []string
	dir       string
	waitDelay time.Duration
}

// NewCommandSpec builds a CommandSpec running args in dir. The args slice is copied.
func NewCommandSpec(dir string, args ...string) CommandSpec {
	return CommandSpec{
		args: slices.Clone(args),
		dir:  dir,
	}
}

// Args returns a copy of the argument vector, program first.
func (c CommandSpec) Args() []string {
	return slices.Clone(c.args)
}

// Dir returns the working directory.
func (c CommandSpec) Dir() string {
	return c.dir
}

// WithWaitDelay returns a copy of c that allows d between interrupt and kill on cancellation.
func (c CommandSpec) WithWaitDelay(d time.Duration) CommandSpec {
	c.args = slices.Clone(c.args)
	c.waitDelay = d
	return c
}

// WaitDelay returns the cancellation grace period, zero meaning the runner default.
func (c CommandSpec) WaitDelay() time.Duration {
	return c.waitDelay
}

// Empty reports whether there is no program to run.
func (c CommandSpec) Empty() bool {
	return len(c.args) == 0
}

// String returns the argument vector joined by spaces.
func (c CommandSpec) String() string {
	return strings.Join(c.args, " ")
}

// PanelTitle formats the title of an output panel.
func PanelTitle(action, subject string) string {
	return action + ": " + subject
}

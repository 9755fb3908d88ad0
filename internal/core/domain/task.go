// Package domain holds the core types of a make run.
package domain

import "path/filepath"

// Target is a file to be made by the external tool.
type Target struct {
	// Path is the absolute path of the file.
	Path string
}

// NewTarget resolves path against cwd and returns the resulting Target.
// Already absolute paths are only cleaned.
func NewTarget(cwd, path string) Target {
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return Target{Path: filepath.Clean(path)}
}

// Name returns the base name of the target file.
func (t Target) Name() string {
	return filepath.Base(t.Path)
}

// RunRequest is the unit of work submitted to the orchestrator.
type RunRequest struct {
	// Targets are made in order, one at a time.
	Targets []Target
	// Chain refreshes the dependency graph once and passes -c to every make call.
	Chain bool
	// Input is piped to every make call. Nil means no input at all.
	Input *string
}

// Validate reports whether the request can be executed.
func (r RunRequest) Validate() error {
	if len(r.Targets) == 0 {
		return ErrNoTargetsSpecified
	}
	return nil
}

// Text returns a pointer to s, for use as RunRequest.Input.
func Text(s string) *string {
	return &s
}

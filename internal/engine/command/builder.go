// Package command builds the argument vectors passed to the external build tool.
package command

import (
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	actionMake      = "make"
	actionDepsGraph = "deps-graph"
	flagChain       = "-c"
)

// Builder produces CommandSpecs for one tool binary and project root.
type Builder struct {
	toolPath  string
	root      string
	waitDelay time.Duration
}

// NewBuilder creates a Builder invoking toolPath with root as working directory.
func NewBuilder(toolPath, root string) *Builder {
	return &Builder{
		toolPath: toolPath,
		root:     root,
	}
}

// WithWaitDelay sets the cancellation grace period carried by every built spec.
func (b *Builder) WithWaitDelay(d time.Duration) *Builder {
	b.waitDelay = d
	return b
}

// Root returns the project root commands run in.
func (b *Builder) Root() string {
	return b.root
}

// Make returns `<tool> make [-c] <relative target>`.
// The legacy "-a -i" flags are never passed.
func (b *Builder) Make(target domain.Target, chain bool) (domain.CommandSpec, error) {
	rel, err := RelativePath(b.root, target.Path)
	if err != nil {
		return domain.CommandSpec{}, err
	}

	args := []string{b.toolPath, actionMake}
	if chain {
		args = append(args, flagChain)
	}
	args = append(args, rel)

	return domain.NewCommandSpec(b.root, args...).WithWaitDelay(b.waitDelay), nil
}

// DepsGraph returns `<tool> deps-graph`.
func (b *Builder) DepsGraph() domain.CommandSpec {
	return domain.NewCommandSpec(b.root, b.toolPath, actionDepsGraph).WithWaitDelay(b.waitDelay)
}

// Title returns the panel title make calls for target carry.
// When the target cannot be resolved the supplied path is used instead.
func (b *Builder) Title(target domain.Target) string {
	rel, err := RelativePath(b.root, target.Path)
	if err != nil {
		rel = target.Path
	}
	return domain.PanelTitle(actionMake, rel)
}

// RelativePath returns target relative to root, with forward slashes.
// It fails with domain.ErrPathResolution when target is not strictly inside root.
func RelativePath(root, target string) (string, error) {
	if root == "" || target == "" {
		return "", pathError(root, target)
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", pathError(root, target)
	}

	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return "", pathError(root, target)
	}

	rel, err := filepath.Rel(rootAbs, targetAbs)
	if err != nil {
		return "", pathError(root, target)
	}

	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", pathError(root, target)
	}

	return filepath.ToSlash(rel), nil
}

func pathError(root, target string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrPathResolution, target), "target", target), "root", root)
}

// Package linear provides a synchronous, line-oriented renderer for pipes and CI logs.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/smake/internal/core/ports"
	"go.trai.ch/smake/internal/ui/output"
	"go.trai.ch/smake/internal/ui/style"
)

// Renderer implements ports.Renderer by printing every panel line with a title prefix.
// Panel output goes to stdout, progress to stderr.
type Renderer struct {
	stdout *termenv.Output
	stderr *termenv.Output
	now    func() time.Time

	mu sync.Mutex
}

// Option configures a Renderer.
type Option func(*rendererOptions)

type rendererOptions struct {
	profile func() termenv.Profile
	now     func() time.Time
}

// WithProfile selects the color profile, ANSI unless NO_COLOR is set by default.
func WithProfile(fn func() termenv.Profile) Option {
	return func(o *rendererOptions) { o.profile = fn }
}

// WithClock replaces time.Now for completion durations.
func WithClock(now func() time.Time) Option {
	return func(o *rendererOptions) { o.now = now }
}

// NewRenderer creates a new Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer, opts ...Option) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	o := rendererOptions{profile: output.ColorProfileANSI, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Renderer{
		stdout: output.NewWithProfile(stdout, o.profile),
		stderr: output.NewWithProfile(stderr, o.profile),
		now:    o.now,
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop is a no-op; every line is written as it arrives.
func (r *Renderer) Stop() error {
	return nil
}

// Wait is a no-op for the linear renderer.
func (r *Renderer) Wait() error {
	return nil
}

// Report prints a progress line to stderr.
func (r *Renderer) Report(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.stderr, r.stderr.String(text).Faint().String())
}

// OpenPanel prints the panel header and returns the panel.
func (r *Renderer) OpenPanel(title string) ports.Panel {
	r.mu.Lock()
	defer r.mu.Unlock()

	marker := r.stdout.String(style.Marker).Foreground(termenv.ANSIBlue).Bold().String()
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", marker, r.stdout.String(title).Bold().String())

	return &panel{
		r:      r,
		title:  title,
		prefix: r.stdout.String("[" + title + "]").Faint().String(),
		start:  r.now(),
	}
}

type panel struct {
	r      *Renderer
	title  string
	prefix string
	start  time.Time
	done   bool
}

func (p *panel) AppendLine(text string) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()

	if p.done {
		return
	}

	if text == "" {
		_, _ = fmt.Fprintln(p.r.stdout, p.prefix)
		return
	}
	_, _ = fmt.Fprintf(p.r.stdout, "%s %s\n", p.prefix, text)
}

func (p *panel) Complete(err error) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()

	if p.done {
		return
	}
	p.done = true

	out := p.r.stdout
	elapsed := p.r.now().Sub(p.start).Round(10 * time.Millisecond)

	if err != nil {
		symbol := out.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(out, "%s %s Failed after %v\n", p.prefix, symbol, elapsed)
		return
	}

	symbol := out.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(out, "%s %s Completed in %v\n", p.prefix, symbol, elapsed)
}

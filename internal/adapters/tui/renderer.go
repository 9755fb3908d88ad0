// Package tui renders make runs as an interactive terminal interface.
package tui

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/smake/internal/core/ports"
)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
	seq     atomic.Uint64
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	program := tea.NewProgram(model, opts...)
	return &Renderer{
		program: program,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop tells the TUI the run is over. The program exits on its own only in auto-exit mode,
// otherwise it stays up until the user quits.
func (r *Renderer) Stop() error {
	r.program.Send(MsgRunDone{})
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// Report forwards progress text to the header.
func (r *Renderer) Report(text string) {
	r.program.Send(MsgProgress{Text: text})
}

// OpenPanel adds a panel to the list and returns a handle that feeds it.
func (r *Renderer) OpenPanel(title string) ports.Panel {
	key := panelKey(r.seq.Add(1), title)
	r.program.Send(MsgPanelOpen{Key: key, Title: title})
	return &panel{program: r.program, key: key}
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}

func panelKey(seq uint64, title string) uint64 {
	return xxhash.Sum64String(strconv.FormatUint(seq, 10) + ":" + title)
}

type panel struct {
	program *tea.Program
	key     uint64
}

func (p *panel) AppendLine(text string) {
	p.program.Send(MsgPanelLine{Key: p.key, Text: text})
}

func (p *panel) Complete(err error) {
	p.program.Send(MsgPanelComplete{Key: p.key, Err: err})
}

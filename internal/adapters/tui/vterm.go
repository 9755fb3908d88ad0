package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// Vterm is the scrollable virtual terminal backing one panel.
// ANSI sequences in tool output are interpreted by midterm.
type Vterm struct {
	vt     *midterm.Terminal
	lines  int
	Offset int
	Height int
	Width  int

	mu      sync.Mutex
	viewBuf bytes.Buffer
}

// NewVterm creates a new Vterm instance.
func NewVterm() *Vterm {
	return &Vterm{vt: midterm.NewAutoResizingTerminal()}
}

// AppendLine writes text as a new line.
// A view that is scrolled to the bottom keeps following new output.
func (v *Vterm) AppendLine(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	follow := v.Offset >= v.maxOffset()

	// The break goes before the line so the cursor never sits on an empty trailing row.
	if v.lines > 0 {
		text = "\r\n" + text
	}
	v.lines++
	_, _ = v.vt.Write([]byte(text))

	if follow {
		v.Offset = v.maxOffset()
	}
}

// Resize sets the visible area, keeping the bottom pinned when it was.
func (v *Vterm) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	follow := v.Offset >= v.maxOffset()

	v.Width = max(width, 1)
	v.Height = max(height, 1)
	v.vt.ResizeX(v.Width)

	if follow {
		v.Offset = v.maxOffset()
	}
	v.clamp()
}

// Scroll moves the view for "pgup", "pgdown", "home" and "end".
// It reports whether the key was handled.
func (v *Vterm) Scroll(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch key {
	case "pgup":
		v.Offset -= v.Height
	case "pgdown":
		v.Offset += v.Height
	case "home":
		v.Offset = 0
	case "end":
		v.Offset = v.maxOffset()
	default:
		return false
	}

	v.clamp()
	return true
}

// ScrollToBottom pins the view to the newest output.
func (v *Vterm) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Offset = v.maxOffset()
}

// UsedHeight returns the number of lines written so far.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.usedHeight()
}

// View renders the visible rows.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.clamp()
	v.viewBuf.Reset()

	used := v.usedHeight()
	for i := 0; i < v.Height && v.Offset+i < used; i++ {
		if i > 0 {
			_ = v.viewBuf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(&v.viewBuf, v.Offset+i)
	}

	return v.viewBuf.String()
}

func (v *Vterm) usedHeight() int {
	return v.vt.UsedHeight()
}

func (v *Vterm) maxOffset() int {
	return max(v.usedHeight()-v.Height, 0)
}

func (v *Vterm) clamp() {
	v.Offset = min(max(v.Offset, 0), v.maxOffset())
}

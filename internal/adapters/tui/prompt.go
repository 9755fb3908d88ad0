package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	promptWidth  = 80
	promptHeight = 8
)

// PromptModel is a multi-line input submitted with ctrl+s.
type PromptModel struct {
	title     string
	input     textarea.Model
	submitted bool
	cancelled bool
}

// NewPromptModel creates a focused prompt titled title.
func NewPromptModel(title string) *PromptModel {
	input := textarea.New()
	input.Placeholder = "Optional. Leave empty for none."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetWidth(promptWidth)
	input.SetHeight(promptHeight)
	input.Focus()

	return &PromptModel{title: title, input: input}
}

// Init starts the cursor blink.
func (m *PromptModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles submit and cancel keys, forwarding the rest to the textarea.
func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			m.submitted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.input.SetWidth(max(min(msg.Width-2, promptWidth), 1))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the title, the input area and the key help.
func (m *PromptModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("ctrl+s submit • esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// Value returns the entered text.
func (m *PromptModel) Value() string {
	return m.input.Value()
}

// Submitted reports whether the user confirmed the input.
func (m *PromptModel) Submitted() bool {
	return m.submitted && !m.cancelled
}

// Prompter implements ports.Prompter with a textarea program of its own,
// run before the output view takes over the terminal.
type Prompter struct {
	opts []tea.ProgramOption
}

// NewPrompter creates a Prompter; opts are passed to every program it runs.
func NewPrompter(opts ...tea.ProgramOption) *Prompter {
	return &Prompter{opts: opts}
}

// Prompt shows the textarea and blocks until it is submitted or dismissed.
func (p *Prompter) Prompt(ctx context.Context, title string) (string, error) {
	model := NewPromptModel(title)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts...)

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return "", zerr.Wrap(domain.ErrPromptCancelled, "prompt interrupted")
		}
		return "", zerr.Wrap(err, "prompt failed")
	}

	if !model.Submitted() {
		return "", domain.ErrPromptCancelled
	}
	return model.Value(), nil
}

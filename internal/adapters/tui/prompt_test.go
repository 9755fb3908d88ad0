package tui_test

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smake/internal/adapters/tui"
	"go.trai.ch/smake/internal/core/domain"
)

func updatePrompt(m *tui.PromptModel, msg tea.Msg) (*tui.PromptModel, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(*tui.PromptModel), cmd
}

func TestPromptModel_Submit(t *testing.T) {
	m := tui.NewPromptModel("Enter Additional Instructions")
	assert.Contains(t, m.View(), "Enter Additional Instructions")
	assert.Contains(t, m.View(), "ctrl+s submit")

	m, _ = updatePrompt(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("be brief")})
	m, cmd := updatePrompt(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.True(t, isQuit(cmd))
	assert.True(t, m.Submitted())
	assert.Equal(t, "be brief", m.Value())
	assert.Empty(t, m.View())
}

func TestPromptModel_Cancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := tui.NewPromptModel("title")
		m, cmd := updatePrompt(m, tea.KeyMsg{Type: k})

		assert.True(t, isQuit(cmd))
		assert.False(t, m.Submitted())
	}
}

func TestPromptModel_EnterAddsNewline(t *testing.T) {
	m := tui.NewPromptModel("title")
	m, _ = updatePrompt(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m, cmd := updatePrompt(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = updatePrompt(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})

	assert.False(t, isQuit(cmd))
	assert.Equal(t, "a\nb", m.Value())
}

func promptOptions(input string) []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithInput(strings.NewReader(input)),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	}
}

func TestPrompter_Prompt(t *testing.T) {
	t.Run("submitted", func(t *testing.T) {
		p := tui.NewPrompter(promptOptions("hello\x13")...)
		text, err := p.Prompt(context.Background(), "title")
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("empty submission", func(t *testing.T) {
		p := tui.NewPrompter(promptOptions("\x13")...)
		text, err := p.Prompt(context.Background(), "title")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("dismissed", func(t *testing.T) {
		p := tui.NewPrompter(promptOptions("\x03")...)
		_, err := p.Prompt(context.Background(), "title")
		require.ErrorIs(t, err, domain.ErrPromptCancelled)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()

		p := tui.NewPrompter(
			tea.WithInput(pr),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
			tea.WithoutRenderer(),
		)
		_, err := p.Prompt(ctx, "title")
		require.ErrorIs(t, err, domain.ErrPromptCancelled)
	})
}

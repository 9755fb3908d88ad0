package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/smake/internal/ui/style"
)

var (
	panelRunningStyle = lipgloss.NewStyle().
				Foreground(style.Accent).
				Bold(true)

	panelDoneStyle = lipgloss.NewStyle().
			Foreground(style.Success)

	panelErrorStyle = lipgloss.NewStyle().
			Foreground(style.Failure)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.Bright)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Failure).
				Foreground(style.Bright)

	progressStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	helpStyle = lipgloss.NewStyle().
			Foreground(style.Muted).
			Faint(true)

	listStyle = lipgloss.NewStyle().
			PaddingRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1)
)

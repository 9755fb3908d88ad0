package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/smake/internal/ui/style"
)

// View renders the header, the panel list and the selected panel's output.
func (m *Model) View() string {
	if m.LogWidth == 0 || m.LogHeight == 0 {
		return "Initializing..."
	}

	list := listStyle.Render(m.listView())
	log := logStyle.Render(m.logView())

	return m.header() + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, list, log)
}

func (m *Model) header() string {
	if m.Finished {
		icon := panelDoneStyle.Render(style.Check)
		if m.hasFailures() {
			icon = panelErrorStyle.Render(style.Cross)
		}
		return fmt.Sprintf("%s %s %s", icon, m.Progress, helpStyle.Render("(press q to quit)"))
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), progressStyle.Render(m.Progress))
}

func (m *Model) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("PANELS"))
	b.WriteString("\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Panels))
	for i := m.ListOffset; i < end; i++ {
		node := m.Panels[i]

		cursor := "  "
		title := node.Title
		if i == m.SelectedIdx {
			cursor = selectedStyle.Render("> ")
			title = selectedStyle.Render(title)
		}

		b.WriteString(cursor + statusIcon(node) + " " + title)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m *Model) logView() string {
	node := m.Selected()
	if node == nil {
		return titleStyle.Render("LOG") + "\n\n" + helpStyle.Render("Waiting for output...")
	}

	mode := "Manual"
	if m.FollowMode {
		mode = "Following"
	}

	header := titleStyle
	if node.Status == StatusError {
		header = failureTitleStyle
	}

	return header.Render(fmt.Sprintf("%s (%s)", node.Title, mode)) + "\n" + node.Term.View()
}

func (m *Model) hasFailures() bool {
	for _, node := range m.Panels {
		if node.Status == StatusError {
			return true
		}
	}
	return false
}

func statusIcon(node *PanelNode) string {
	switch node.Status {
	case StatusRunning:
		return panelRunningStyle.Render(style.Running)
	case StatusDone:
		return panelDoneStyle.Render(style.Check)
	case StatusError:
		return panelErrorStyle.Render(style.Cross)
	default:
		return helpStyle.Render(style.Pending)
	}
}

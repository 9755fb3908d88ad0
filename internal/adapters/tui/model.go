package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	panelListWidthRatio = 0.3
	logPaneBorderWidth  = 4
	// headerRows is the progress line plus the blank line under it.
	headerRows = 2
	// listTitleRows is the list title plus the blank line under it.
	listTitleRows = 2
	logTitleRows  = 1
)

// PanelStatus represents the state of a panel's invocation.
type PanelStatus string

const (
	// StatusRunning indicates the tool is still producing output.
	StatusRunning PanelStatus = "Running"
	// StatusDone indicates the invocation succeeded.
	StatusDone PanelStatus = "Done"
	// StatusError indicates the invocation failed.
	StatusError PanelStatus = "Error"
)

// PanelNode is one panel in the list.
type PanelNode struct {
	Key    uint64
	Title  string
	Status PanelStatus
	Err    error
	Term   *Vterm
}

// Model is the bubbletea model of the output view.
type Model struct {
	Panels      []*PanelNode
	PanelMap    map[uint64]*PanelNode
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	LogWidth    int
	LogHeight   int
	FollowMode  bool
	Progress    string
	Finished    bool
	AutoExit    bool

	spinner spinner.Model
}

// NewModel creates an empty model following the newest panel.
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = panelRunningStyle

	return &Model{
		PanelMap:   make(map[uint64]*PanelNode),
		FollowMode: true,
		spinner:    s,
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.Finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgPanelOpen:
		m.openPanel(msg)

	case MsgPanelLine:
		if node, ok := m.PanelMap[msg.Key]; ok {
			node.Term.AppendLine(msg.Text)
		}

	case MsgPanelComplete:
		if node, ok := m.PanelMap[msg.Key]; ok {
			node.Err = msg.Err
			node.Status = StatusDone
			if msg.Err != nil {
				node.Status = StatusError
			}
		}

	case MsgProgress:
		m.Progress = msg.Text

	case MsgRunDone:
		m.Finished = true
		if m.AutoExit {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Panels)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
		}
	case "esc":
		m.FollowMode = true
		m.selectNewest()
	default:
		if node := m.Selected(); node != nil {
			node.Term.Scroll(key)
		}
	}

	return m, nil
}

func (m *Model) openPanel(msg MsgPanelOpen) {
	term := NewVterm()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		term.Resize(m.LogWidth, m.LogHeight)
	}

	node := &PanelNode{
		Key:    msg.Key,
		Title:  msg.Title,
		Status: StatusRunning,
		Term:   term,
	}
	m.Panels = append(m.Panels, node)
	m.PanelMap[msg.Key] = node

	if m.FollowMode {
		m.selectNewest()
	}
}

func (m *Model) selectNewest() {
	if len(m.Panels) == 0 {
		return
	}
	m.SelectedIdx = len(m.Panels) - 1
	m.ensureVisible()
	m.Panels[m.SelectedIdx].Term.ScrollToBottom()
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * panelListWidthRatio)

	m.LogWidth = max(width-listWidth-logPaneBorderWidth, 1)
	m.LogHeight = max(height-headerRows-logTitleRows, 1)
	m.ListHeight = max(height-headerRows-listTitleRows, 1)
	m.ensureVisible()

	for _, node := range m.Panels {
		node.Term.Resize(m.LogWidth, m.LogHeight)
	}
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

// Selected returns the panel shown in the log pane, if any.
func (m *Model) Selected() *PanelNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Panels) {
		return m.Panels[m.SelectedIdx]
	}
	return nil
}

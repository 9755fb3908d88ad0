package tui

// MsgPanelOpen adds a panel to the list.
type MsgPanelOpen struct {
	Key   uint64
	Title string
}

// MsgPanelLine appends one line of output to a panel.
type MsgPanelLine struct {
	Key  uint64
	Text string
}

// MsgPanelComplete marks a panel finished.
type MsgPanelComplete struct {
	Key uint64
	Err error
}

// MsgProgress replaces the header progress text.
type MsgProgress struct {
	Text string
}

// MsgRunDone is sent once no further panel messages will arrive.
type MsgRunDone struct{}

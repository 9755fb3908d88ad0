package ports

import "context"

// Panel is one titled, append-only output area.
type Panel interface {
	// AppendLine adds a line of text to the panel.
	AppendLine(text string)
	// Complete marks the panel finished. A nil err means the invocation succeeded.
	Complete(err error)
}

// DisplaySink creates output panels.
//
//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks
type DisplaySink interface {
	// OpenPanel creates a new panel with the given title and brings the sink into view.
	OpenPanel(title string) Panel
}

// Progress is the run-level progress indicator.
type Progress interface {
	// Report replaces the progress text.
	Report(text string)
}

// Renderer owns the presentation layer of a run.
// All DisplaySink and Progress calls may come from a worker goroutine;
// implementations apply them in call order.
type Renderer interface {
	DisplaySink
	Progress

	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer that no more events will arrive.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error
}

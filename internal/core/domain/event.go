package domain

// ProcessOutcome is the terminal result of one subprocess.
type ProcessOutcome struct {
	// ExitCode is the process exit status, -1 when it was killed by a signal.
	ExitCode int
	// Output is the full streamed text, one newline-terminated line per Line event.
	Output string
}

// Success reports whether the process exited with status 0.
func (o ProcessOutcome) Success() bool {
	return o.ExitCode == 0
}

// EventKind discriminates StreamEvent values.
type EventKind int

const (
	// EventLine carries one line of output.
	EventLine EventKind = iota
	// EventDone is the last event of an invocation.
	EventDone
)

// StreamEvent is produced by a process runner while the subprocess is alive.
// No event follows an EventDone for the same invocation.
type StreamEvent struct {
	Kind    EventKind
	Line    string
	Outcome ProcessOutcome
}

// LineEvent returns an EventLine carrying text.
func LineEvent(text string) StreamEvent {
	return StreamEvent{Kind: EventLine, Line: text}
}

// DoneEvent returns the terminal EventDone carrying outcome.
func DoneEvent(outcome ProcessOutcome) StreamEvent {
	return StreamEvent{Kind: EventDone, Outcome: outcome}
}

// RunSummary reports what happened to each target of a run.
type RunSummary struct {
	Completed []string
	Failed    []string
	Cancelled bool
}

// OK reports whether every target succeeded and the run was not cancelled.
func (s RunSummary) OK() bool {
	return len(s.Failed) == 0 && !s.Cancelled
}

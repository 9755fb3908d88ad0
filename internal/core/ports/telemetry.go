package ports

import (
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records one vertex per tool invocation.
type Telemetry interface {
	// Record starts a new vertex.
	Record(name string) Vertex
	// Trace writes every update recorded from now on as a JSON journal to path.
	Trace(path string) error
	// Close flushes and ends the recording session.
	Close() error
}

// Vertex is a single recorded invocation.
type Vertex interface {
	// Stdout returns a writer capturing the invocation output.
	Stdout() io.Writer
	// Complete marks the vertex finished, failed when err is non-nil.
	Complete(err error)
}

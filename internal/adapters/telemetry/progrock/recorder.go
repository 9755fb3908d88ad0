// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/smake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	out *fanout
	rec *progrock.Recorder
	seq atomic.Uint64
}

// New creates a new Recorder that keeps nothing until a trace is started.
func New() ports.Telemetry {
	return NewRecorder()
}

// NewRecorder creates a new Recorder writing to the given writers.
func NewRecorder(writers ...progrock.Writer) *Recorder {
	out := &fanout{writers: writers}
	return &Recorder{
		out: out,
		rec: progrock.NewRecorder(out),
	}
}

// Record starts recording a new vertex.
// Invocations with the same name get distinct digests.
func (r *Recorder) Record(name string) ports.Vertex {
	n := r.seq.Add(1)
	d := digest.FromString(strconv.FormatUint(n, 10) + ":" + name)
	return &Vertex{vertex: r.rec.Vertex(d, name)}
}

// Trace adds a JSON journal at path, one status update per line.
func (r *Recorder) Trace(path string) error {
	journal, err := progrock.CreateJournal(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create trace journal"), "path", path)
	}
	r.out.add(journal)
	return nil
}

// Close completes the session and closes every writer.
func (r *Recorder) Close() error {
	r.rec.Complete()
	return r.rec.Close()
}

// fanout forwards status updates to a set of writers that can grow while recording.
type fanout struct {
	mu      sync.Mutex
	writers progrock.MultiWriter
}

func (f *fanout) add(w progrock.Writer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writers = append(f.writers, w)
}

func (f *fanout) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writers.WriteStatus(update)
}

func (f *fanout) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.writers.Close()
	f.writers = nil
	return err
}

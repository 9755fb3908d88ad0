package linear_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smake/internal/adapters/linear"
	"go.trai.ch/smake/internal/ui/output"
)

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

func newRenderer(stdout, stderr *bytes.Buffer) *linear.Renderer {
	return linear.NewRenderer(stdout, stderr,
		linear.WithProfile(output.Ascii),
		linear.WithClock(stepClock(1250*time.Millisecond)),
	)
}

func TestRenderer_Golden(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newRenderer(&stdout, &stderr)
	require.NoError(t, r.Start(t.Context()))

	r.Report("Executing make for a.txt")
	a := r.OpenPanel("make: a.txt")
	a.AppendLine("compiling a.txt")
	a.AppendLine("")
	a.AppendLine("done")
	a.Complete(nil)

	r.Report("Executing make for b.txt")
	b := r.OpenPanel("make: b.txt")
	b.AppendLine("error: boom")
	b.Complete(errors.New("boom"))

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	g := goldie.New(t)
	g.Assert(t, "renderer_stdout", stdout.Bytes())
	assert.Equal(t, "Executing make for a.txt\nExecuting make for b.txt\n", stderr.String())
}

func TestRenderer_IgnoresWritesAfterComplete(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newRenderer(&stdout, &stderr)

	p := r.OpenPanel("make: a.txt")
	p.Complete(nil)
	before := stdout.String()

	p.AppendLine("late")
	p.Complete(errors.New("again"))
	assert.Equal(t, before, stdout.String())
}

func TestRenderer_InterleavedPanels(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newRenderer(&stdout, &stderr)

	a := r.OpenPanel("make: a.txt")
	b := r.OpenPanel("make: b.txt")
	a.AppendLine("from a")
	b.AppendLine("from b")

	assert.Contains(t, stdout.String(), "[make: a.txt] from a\n")
	assert.Contains(t, stdout.String(), "[make: b.txt] from b\n")
}

func TestRenderer_ConcurrentWrites(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newRenderer(&stdout, &stderr)
	p := r.OpenPanel("make: a.txt")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.AppendLine("line")
			r.Report("progress")
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, bytes.Count(stdout.Bytes(), []byte("[make: a.txt] line\n")))
	assert.Equal(t, 10, bytes.Count(stderr.Bytes(), []byte("progress\n")))
}

func TestRenderer_NilWriters(t *testing.T) {
	assert.NotNil(t, linear.NewRenderer(nil, nil))
}

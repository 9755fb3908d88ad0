package progrock_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	recorder "go.trai.ch/smake/internal/adapters/telemetry/progrock"
)

type captureWriter struct {
	mu      sync.Mutex
	updates []*progrock.StatusUpdate
	closed  bool
}

func (w *captureWriter) WriteStatus(u *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updates = append(w.updates, u)
	return nil
}

func (w *captureWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *captureWriter) vertices() map[string]*progrock.Vertex {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := map[string]*progrock.Vertex{}
	for _, u := range w.updates {
		for _, v := range u.Vertexes {
			out[v.Id] = v
		}
	}
	return out
}

func (w *captureWriter) logs() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var data []byte
	for _, u := range w.updates {
		for _, l := range u.Logs {
			data = append(data, l.Data...)
		}
	}
	return string(data)
}

func TestNew(t *testing.T) {
	assert.NotNil(t, recorder.New())
}

func TestRecorder_Record(t *testing.T) {
	w := &captureWriter{}
	rec := recorder.NewRecorder(w)

	vertex := rec.Record("make: a.txt")

	_, err := vertex.Stdout().Write([]byte("compiling\n"))
	require.NoError(t, err)
	vertex.Complete(nil)

	assert.Contains(t, w.logs(), "compiling")

	vertices := w.vertices()
	require.Len(t, vertices, 1)
	for _, v := range vertices {
		assert.Equal(t, "make: a.txt", v.Name)
		assert.NotNil(t, v.Completed)
		assert.Nil(t, v.Error)
	}

	require.NoError(t, rec.Close())
	assert.True(t, w.closed)
}

func TestRecorder_SameNameDistinctVertices(t *testing.T) {
	w := &captureWriter{}
	rec := recorder.NewRecorder(w)

	first := rec.Record("deps-graph")
	second := rec.Record("deps-graph")
	first.Complete(nil)
	second.Complete(errors.New("exit status 1"))

	vertices := w.vertices()
	require.Len(t, vertices, 2)

	failed := 0
	for _, v := range vertices {
		if v.Error != nil {
			failed++
			assert.Contains(t, *v.Error, "exit status 1")
		}
	}
	assert.Equal(t, 1, failed)
}

func readJournal(t *testing.T, path string) []*progrock.StatusUpdate {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var updates []*progrock.StatusUpdate
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var u progrock.StatusUpdate
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &u))
		updates = append(updates, &u)
	}
	require.NoError(t, scanner.Err())
	return updates
}

func TestRecorder_Trace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")

	rec := recorder.NewRecorder()
	dropped := rec.Record("before trace")
	dropped.Complete(nil)

	require.NoError(t, rec.Trace(path))

	vertex := rec.Record("make: a.txt")
	_, err := vertex.Stdout().Write([]byte("compiling\n"))
	require.NoError(t, err)
	vertex.Complete(errors.New("exit status 2"))
	require.NoError(t, rec.Close())

	var (
		names []string
		logs  []byte
		errs  []string
	)
	for _, u := range readJournal(t, path) {
		for _, v := range u.Vertexes {
			names = append(names, v.Name)
			if v.Error != nil {
				errs = append(errs, *v.Error)
			}
		}
		for _, l := range u.Logs {
			logs = append(logs, l.Data...)
		}
	}

	assert.Contains(t, names, "make: a.txt")
	assert.NotContains(t, names, "before trace")
	assert.Equal(t, "compiling\n", string(logs))
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[len(errs)-1], "exit status 2")
}

func TestRecorder_TraceUnwritablePath(t *testing.T) {
	rec := recorder.NewRecorder()
	err := rec.Trace(filepath.Join(t.TempDir(), "missing", "trace.jsonl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create trace journal")
}

func TestRecorder_CloseWithoutTrace(t *testing.T) {
	rec := recorder.NewRecorder()
	rec.Record("deps-graph").Complete(nil)
	assert.NoError(t, rec.Close())
}

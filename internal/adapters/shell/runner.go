// Package shell provides the process runner that spawns the external build tool.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/smake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct {
	logger    ports.Logger
	waitDelay time.Duration
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger:    logger,
		waitDelay: domain.DefaultWaitDelay,
	}
}

// WithWaitDelay sets how long a cancelled process may run after the interrupt before it is killed.
func (r *Runner) WithWaitDelay(d time.Duration) *Runner {
	if d > 0 {
		r.waitDelay = d
	}
	return r
}

// Run starts the command and streams its combined output.
// The caller must drain the returned channel until it is closed.
func (r *Runner) Run(
	ctx context.Context,
	spec domain.CommandSpec,
	input *string,
) (<-chan domain.StreamEvent, error) {
	if spec.Empty() {
		return nil, zerr.Wrap(domain.ErrSpawnFailed, "empty command")
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(domain.ErrSpawnFailed, zerr.Wrap(err, "failed to start "+spec.String()))
	}

	args := spec.Args()
	cmd := exec.Command(args[0], args[1:]...) //nolint:gosec // tool path is user configured
	cmd.Dir = spec.Dir()

	// A nil Stdin is connected to the null device, so the tool sees EOF at once.
	if input != nil {
		cmd.Stdin = strings.NewReader(*input)
	}

	// Both streams share the write end of one pipe, so stdout and stderr stay
	// interleaved as produced. Passing an *os.File keeps exec from copying,
	// which means Wait returns when the tool exits even if a child it left
	// behind still holds the pipe.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(domain.ErrSpawnFailed, zerr.Wrap(err, "failed to create output pipe"))
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, errors.Join(
			domain.ErrSpawnFailed,
			zerr.With(zerr.Wrap(err, "failed to start "+args[0]), "command", spec.String()),
		)
	}
	_ = pw.Close()
	r.logger.Debug("started " + spec.String())

	grace := r.waitDelay
	if d := spec.WaitDelay(); d > 0 {
		grace = d
	}

	events := make(chan domain.StreamEvent)
	out := &lineWriter{
		emit: func(line string) {
			r.logger.Debug(line)
			events <- domain.LineEvent(line)
		},
	}

	exited := make(chan struct{})
	go interruptOnCancel(ctx, cmd.Process, grace, exited)

	copied := make(chan struct{})
	go func() {
		defer close(copied)
		_, _ = io.Copy(out, pr)
	}()

	go func() {
		defer close(events)

		_ = cmd.Wait()
		close(exited)

		// Output is read until EOF. Only a cancelled run stops early, once the
		// grace period is over, because its leftover children may never exit.
		select {
		case <-copied:
		case <-ctx.Done():
			select {
			case <-copied:
			case <-time.After(grace):
			}
		}
		_ = pr.Close()
		<-copied
		out.Close()

		code := cmd.ProcessState.ExitCode()
		r.logger.Debug(spec.String() + " exited with status " + strconv.Itoa(code))

		events <- domain.DoneEvent(domain.ProcessOutcome{
			ExitCode: code,
			Output:   out.Output(),
		})
	}()

	return events, nil
}

// interruptOnCancel sends an interrupt once ctx is done and kills the process
// if it is still running after grace.
func interruptOnCancel(ctx context.Context, proc *os.Process, grace time.Duration, exited <-chan struct{}) {
	select {
	case <-exited:
		return
	case <-ctx.Done():
	}

	_ = proc.Signal(os.Interrupt)

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-exited:
	case <-timer.C:
		_ = proc.Kill()
	}
}

// lineWriter splits written bytes into lines and hands each complete line to emit.
// Only the goroutine copying the output pipe calls Write.
type lineWriter struct {
	emit   func(line string)
	buf    []byte
	output strings.Builder
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.emitLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close emits a trailing line that was not newline terminated.
func (w *lineWriter) Close() {
	if len(w.buf) > 0 {
		w.emitLine(w.buf)
		w.buf = nil
	}
}

// Output returns every emitted line, each followed by a newline.
func (w *lineWriter) Output() string {
	return w.output.String()
}

func (w *lineWriter) emitLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	w.output.WriteString(msg)
	w.output.WriteByte('\n')
	w.emit(msg)
}

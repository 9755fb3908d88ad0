package shell_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smake/internal/adapters/shell"
	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/smake/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRunner(t *testing.T) *shell.Runner {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return shell.NewRunner(log)
}

func sh(t *testing.T, script string) domain.CommandSpec {
	t.Helper()
	return domain.NewCommandSpec(t.TempDir(), "sh", "-c", script)
}

// drain collects every event until the channel closes and checks that Done is last.
func drain(t *testing.T, events <-chan domain.StreamEvent) ([]string, domain.ProcessOutcome) {
	t.Helper()

	var (
		lines   []string
		outcome domain.ProcessOutcome
		done    int
	)

	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				require.Equal(t, 1, done, "exactly one done event expected")
				return lines, outcome
			}
			require.Zero(t, done, "no event may follow done")
			switch ev.Kind {
			case domain.EventLine:
				lines = append(lines, ev.Line)
			case domain.EventDone:
				done++
				outcome = ev.Outcome
			}
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func TestRunner_Run_LinesInOrder(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "echo one; echo two; echo three"), nil)
	require.NoError(t, err)

	lines, outcome := drain(t, events)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Equal(t, "one\ntwo\nthree\n", outcome.Output)
}

func TestRunner_Run_MergesStderr(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "echo out; echo err >&2; echo out2"), nil)
	require.NoError(t, err)

	lines, _ := drain(t, events)
	assert.Equal(t, []string{"out", "err", "out2"}, lines)
}

func TestRunner_Run_PipesInput(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "cat"), domain.Text("hello\nworld\n"))
	require.NoError(t, err)

	lines, outcome := drain(t, events)
	assert.Equal(t, []string{"hello", "world"}, lines)
	assert.True(t, outcome.Success())
}

func TestRunner_Run_NilInputDoesNotBlock(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "cat; echo finished"), nil)
	require.NoError(t, err)

	lines, outcome := drain(t, events)
	assert.Equal(t, []string{"finished"}, lines)
	assert.True(t, outcome.Success())
}

func TestRunner_Run_EmptyInput(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "cat; echo finished"), domain.Text(""))
	require.NoError(t, err)

	lines, _ := drain(t, events)
	assert.Equal(t, []string{"finished"}, lines)
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "echo failing; exit 3"), nil)
	require.NoError(t, err)

	lines, outcome := drain(t, events)
	assert.Equal(t, []string{"failing"}, lines)
	assert.Equal(t, 3, outcome.ExitCode)
	assert.False(t, outcome.Success())
}

func TestRunner_Run_TrailingPartialLine(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "printf 'first\\nno newline'"), nil)
	require.NoError(t, err)

	lines, outcome := drain(t, events)
	assert.Equal(t, []string{"first", "no newline"}, lines)
	assert.Equal(t, "first\nno newline\n", outcome.Output)
}

func TestRunner_Run_FragmentedWrites(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "printf part1; sleep 0.1; echo part2"), nil)
	require.NoError(t, err)

	lines, _ := drain(t, events)
	assert.Equal(t, []string{"part1part2"}, lines)
}

func TestRunner_Run_StripsCarriageReturn(t *testing.T) {
	events, err := newRunner(t).Run(context.Background(), sh(t, "printf 'dos\\r\\n'"), nil)
	require.NoError(t, err)

	lines, _ := drain(t, events)
	assert.Equal(t, []string{"dos"}, lines)
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	spec := domain.NewCommandSpec(dir, "pwd")

	events, err := newRunner(t).Run(context.Background(), spec, nil)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	lines, _ := drain(t, events)
	require.Len(t, lines, 1)
	got, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunner_Run_MissingExecutable(t *testing.T) {
	spec := domain.NewCommandSpec(t.TempDir(), "/nonexistent/sisho", "make", "a.txt")

	events, err := newRunner(t).Run(context.Background(), spec, nil)
	require.Error(t, err)
	assert.Nil(t, events)
	assert.True(t, errors.Is(err, domain.ErrSpawnFailed))
	assert.Contains(t, err.Error(), "/nonexistent/sisho")
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	_, err := newRunner(t).Run(context.Background(), domain.NewCommandSpec(t.TempDir()), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSpawnFailed))
}

func TestRunner_Run_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	spec := sh(t, "echo started; exec sleep 30").WithWaitDelay(200 * time.Millisecond)
	events, err := newRunner(t).Run(ctx, spec, nil)
	require.NoError(t, err)

	first := <-events
	require.Equal(t, domain.EventLine, first.Kind)
	assert.Equal(t, "started", first.Line)

	start := time.Now()
	cancel()

	_, outcome := drain(t, events)
	assert.False(t, outcome.Success())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunner_Run_BackgroundChildKeepsOutputAndExitCode(t *testing.T) {
	// The grace period only applies to cancelled runs. A finished tool whose
	// child still holds the pipe keeps its output and its exit status.
	spec := sh(t, "echo hi; (sleep 1; echo late) &").WithWaitDelay(100 * time.Millisecond)
	events, err := newRunner(t).Run(context.Background(), spec, nil)
	require.NoError(t, err)

	lines, outcome := drain(t, events)
	assert.Equal(t, []string{"hi", "late"}, lines)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.True(t, outcome.Success())
}

func TestRunner_Run_BackgroundChildExitStatus(t *testing.T) {
	spec := sh(t, "echo hi; sleep 1 & exit 3").WithWaitDelay(100 * time.Millisecond)
	events, err := newRunner(t).Run(context.Background(), spec, nil)
	require.NoError(t, err)

	lines, outcome := drain(t, events)
	assert.Equal(t, []string{"hi"}, lines)
	assert.Equal(t, 3, outcome.ExitCode)
}

func TestRunner_Run_CancellationWithLingeringChild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background jobs of a non-interactive shell ignore SIGINT, so the child
	// outlives the tool and keeps the pipe open.
	spec := sh(t, "sleep 30 & echo started; exec sleep 30").WithWaitDelay(200 * time.Millisecond)
	events, err := newRunner(t).Run(ctx, spec, nil)
	require.NoError(t, err)

	first := <-events
	require.Equal(t, domain.EventLine, first.Kind)
	assert.Equal(t, "started", first.Line)

	start := time.Now()
	cancel()

	_, outcome := drain(t, events)
	assert.False(t, outcome.Success())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunner_Run_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t).Run(ctx, sh(t, "echo never"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSpawnFailed))
	assert.True(t, errors.Is(err, context.Canceled))
}

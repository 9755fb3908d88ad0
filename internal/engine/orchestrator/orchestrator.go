// Package orchestrator sequences the tool invocations of a run and relays their output.
package orchestrator

import (
	"context"
	"io"
	"strconv"
	"strings"

	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/smake/internal/core/ports"
	"go.trai.ch/smake/internal/engine/command"
	"go.trai.ch/zerr"
)

const (
	// ProgressDepsGraph is reported while the dependency graph is refreshed.
	ProgressDepsGraph = "Updating dependency graph..."
	// ProgressCancelled is the single notice reported when a run stops early.
	ProgressCancelled = "Cancelled"

	depsGraphVertex = "deps-graph"
)

// Orchestrator executes a RunRequest, one target at a time.
type Orchestrator struct {
	builder   *command.Builder
	runner    ports.ProcessRunner
	sink      ports.DisplaySink
	progress  ports.Progress
	telemetry ports.Telemetry
	logger    ports.Logger

	logDepsGraph bool
}

// New creates a new Orchestrator with the given dependencies.
func New(
	builder *command.Builder,
	runner ports.ProcessRunner,
	sink ports.DisplaySink,
	progress ports.Progress,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		builder:      builder,
		runner:       runner,
		sink:         sink,
		progress:     progress,
		telemetry:    telemetry,
		logger:       logger,
		logDepsGraph: true,
	}
}

// WithDepsGraphLogging controls whether deps-graph output is written to the debug log.
func (o *Orchestrator) WithDepsGraphLogging(enabled bool) *Orchestrator {
	o.logDepsGraph = enabled
	return o
}

type result int

const (
	resultSucceeded result = iota
	resultFailed
	resultCancelled
)

// Execute runs req to completion or until ctx is cancelled.
// Failures of individual targets are reported on their panels and in the summary;
// they never stop the remaining targets.
func (o *Orchestrator) Execute(ctx context.Context, req domain.RunRequest) domain.RunSummary {
	var summary domain.RunSummary

	if err := req.Validate(); err != nil {
		o.progress.Report(err.Error())
		return summary
	}

	if req.Chain {
		if ctx.Err() != nil {
			return o.cancelled(summary)
		}
		o.refreshDepsGraph(ctx)
	}

	for _, target := range req.Targets {
		if ctx.Err() != nil {
			return o.cancelled(summary)
		}

		o.progress.Report("Executing make for " + target.Name())

		title := o.builder.Title(target)
		switch o.makeTarget(ctx, target, title, req) {
		case resultSucceeded:
			summary.Completed = append(summary.Completed, title)
		case resultFailed:
			summary.Failed = append(summary.Failed, title)
		case resultCancelled:
			return o.cancelled(summary)
		}
	}

	o.progress.Report(finished(summary))
	return summary
}

func (o *Orchestrator) cancelled(summary domain.RunSummary) domain.RunSummary {
	summary.Cancelled = true
	o.progress.Report(ProgressCancelled)
	o.logger.Warn("run cancelled")
	return summary
}

// refreshDepsGraph runs deps-graph once. Its output goes to telemetry and the debug log only.
func (o *Orchestrator) refreshDepsGraph(ctx context.Context) {
	o.progress.Report(ProgressDepsGraph)

	spec := o.builder.DepsGraph()
	vertex := o.telemetry.Record(depsGraphVertex)

	emit := func(string) {}
	if o.logDepsGraph {
		emit = func(line string) { o.logger.Debug("deps-graph: " + line) }
	}

	outcome, err := o.stream(ctx, spec, nil, emit, vertex.Stdout())
	if ctx.Err() != nil {
		// The caller reports the cancellation.
		vertex.Complete(domain.ErrCancelled)
		return
	}
	if err == nil && !outcome.Success() {
		err = exitError(spec.String(), outcome.ExitCode)
	}
	vertex.Complete(err)

	if err != nil {
		o.progress.Report("Dependency graph refresh failed: " + singleLine(err))
		o.logger.Error(err)
	}
}

func (o *Orchestrator) makeTarget(
	ctx context.Context,
	target domain.Target,
	title string,
	req domain.RunRequest,
) result {
	// The panel exists before anything can fail so every error has a home.
	panel := o.sink.OpenPanel(title)

	spec, err := o.builder.Make(target, req.Chain)
	if err != nil {
		o.fail(panel, err)
		return resultFailed
	}

	vertex := o.telemetry.Record(title)
	outcome, err := o.stream(ctx, spec, req.Input, panel.AppendLine, vertex.Stdout())
	if err != nil {
		vertex.Complete(err)
		o.fail(panel, err)
		return resultFailed
	}

	if ctx.Err() != nil {
		vertex.Complete(domain.ErrCancelled)
		panel.Complete(domain.ErrCancelled)
		return resultCancelled
	}

	if !outcome.Success() {
		err := exitError(title, outcome.ExitCode)
		panel.AppendLine("[exit status " + strconv.Itoa(outcome.ExitCode) + "]")
		vertex.Complete(err)
		panel.Complete(err)
		return resultFailed
	}

	vertex.Complete(nil)
	panel.Complete(nil)
	return resultSucceeded
}

// stream runs spec and forwards every line to emit and tee until the runner is done.
func (o *Orchestrator) stream(
	ctx context.Context,
	spec domain.CommandSpec,
	input *string,
	emit func(string),
	tee io.Writer,
) (domain.ProcessOutcome, error) {
	o.logger.Debug("running " + spec.String())

	events, err := o.runner.Run(ctx, spec, input)
	if err != nil {
		return domain.ProcessOutcome{}, err
	}

	outcome := domain.ProcessOutcome{ExitCode: -1}
	for ev := range events {
		switch ev.Kind {
		case domain.EventLine:
			emit(ev.Line)
			_, _ = io.WriteString(tee, ev.Line+"\n")
		case domain.EventDone:
			outcome = ev.Outcome
		}
	}

	return outcome, nil
}

func (o *Orchestrator) fail(panel ports.Panel, err error) {
	panel.AppendLine("error: " + singleLine(err))
	panel.Complete(err)
	o.logger.Error(err)
}

func exitError(name string, code int) error {
	return zerr.With(zerr.Wrap(domain.ErrNonZeroExit, name), "exit_code", code)
}

func singleLine(err error) string {
	return strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", ": ")
}

func finished(summary domain.RunSummary) string {
	done := strconv.Itoa(len(summary.Completed)) + " succeeded"
	if len(summary.Failed) == 0 {
		return "Finished: " + done
	}
	return "Finished: " + done + ", " + strconv.Itoa(len(summary.Failed)) + " failed"
}

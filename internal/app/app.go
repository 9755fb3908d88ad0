// Package app implements the application layer for smake.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/smake/internal/adapters/detector"
	"go.trai.ch/smake/internal/adapters/linear"
	"go.trai.ch/smake/internal/adapters/tui"
	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/smake/internal/core/ports"
	"go.trai.ch/smake/internal/engine/command"
	"go.trai.ch/smake/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// PromptTitle is shown above the instructions prompt.
const PromptTitle = "Enter Additional Instructions"

// logSink is implemented by loggers whose destination and format can change at runtime.
type logSink interface {
	SetOutput(w io.Writer)
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// App represents the main application logic.
type App struct {
	loader    ports.ConfigLoader
	runner    ports.ProcessRunner
	telemetry ports.Telemetry
	logger    ports.Logger

	prompter   ports.Prompter
	teaOptions []tea.ProgramOption
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	getwd      func() (string, error)
	detect     func() string
	stdinTTY   func() bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner ports.ProcessRunner,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		loader:    loader,
		runner:    runner,
		telemetry: telemetry,
		logger:    log,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		getwd:     os.Getwd,
		detect:    detector.DetectEnvironment,
		stdinTTY:  detector.StdinIsTerminal,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithPrompter replaces the mode-specific prompter.
func (a *App) WithPrompter(p ports.Prompter) *App {
	a.prompter = p
	return a
}

// WithStreams replaces the process standard streams.
func (a *App) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *App {
	a.stdin = stdin
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithWorkingDir makes targets and root discovery relative to dir instead of the process cwd.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// WithEnvironment fixes the detected output mode and whether stdin is a terminal.
func (a *App) WithEnvironment(mode string, stdinIsTerminal bool) *App {
	a.detect = func() string { return mode }
	a.stdinTTY = func() bool { return stdinIsTerminal }
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Chain refreshes the dependency graph first and makes every target with -c.
	Chain bool
	// Message is used as input verbatim when set.
	Message *string
	// InputFile is read as input; "-" reads stdin.
	InputFile string
	// NoInput runs the tool with stdin closed and skips the prompt.
	NoInput bool

	Root       string
	Tool       string
	OutputMode string
	AutoExit   bool
	JSONLogs   bool
	Verbose    bool
	// Trace names a file that receives every recorded invocation as a JSON journal.
	Trace string
}

// Run makes the given targets, one tool invocation at a time.
//
//nolint:cyclop // orchestration function
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	a.configureLogger(opts)

	// 1. Validate targets
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	// 2. Load the configuration
	cwd, err := a.getwd()
	if err != nil {
		return errors.Join(domain.ErrFailedToGetRoot, zerr.Wrap(err, "failed to get working directory"))
	}

	cfg, err := a.loadConfig(cwd, opts)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	targets := make([]domain.Target, 0, len(targetNames))
	for _, name := range targetNames {
		targets = append(targets, domain.NewTarget(cwd, name))
	}

	mode := detector.ResolveMode(a.detect(), cfg.OutputMode)
	a.logger.Debug(fmt.Sprintf("output mode %s, tool %s, root %s", mode, cfg.ToolPath, cfg.Root))

	// 3. Resolve the input before anything is spawned
	input, err := a.resolveInput(ctx, cwd, mode, opts)
	if err != nil {
		return err
	}

	req := domain.RunRequest{Targets: targets, Chain: opts.Chain, Input: input}

	// 4. Initialize Renderer
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var renderer ports.Renderer
	if mode == domain.OutputTUI {
		restore, err := a.redirectLogs(cfg.Root)
		if err != nil {
			return err
		}
		defer restore()

		model := tui.NewModel()
		model.AutoExit = opts.AutoExit
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		renderer = tui.NewRenderer(model, optsTea...)
	} else {
		renderer = linear.NewRenderer(a.stdout, a.stderr)
	}

	if opts.Trace != "" {
		path := opts.Trace
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if err := a.telemetry.Trace(path); err != nil {
			return err
		}
		a.logger.Debug("tracing invocations to " + path)
	}

	defer func() {
		if err := a.telemetry.Close(); err != nil {
			a.logger.Warn("failed to close telemetry: " + err.Error())
		}
	}()

	// 5. Initialize Orchestrator
	builder := command.NewBuilder(cfg.ToolPath, cfg.Root).WithWaitDelay(cfg.WaitDelay)
	orch := orchestrator.New(builder, a.runner, renderer, renderer, a.telemetry, a.logger).
		WithDepsGraphLogging(cfg.LogDepsGraph)

	// 6. Run Renderer and Orchestrator concurrently
	var summary domain.RunSummary
	g := new(errgroup.Group)

	// Renderer Routine
	g.Go(func() error {
		if err := renderer.Start(runCtx); err != nil {
			cancelRun()
			return err
		}
		err := renderer.Wait()
		if mode == domain.OutputTUI {
			// Quitting the TUI stops the run.
			cancelRun()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	// Orchestrator Routine
	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		summary = orch.Execute(runCtx, req)
		return nil
	})

	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "renderer failed")
	}

	return summaryError(summary)
}

func (a *App) configureLogger(opts RunOptions) {
	if sink, ok := a.logger.(logSink); ok {
		sink.SetJSON(opts.JSONLogs)
		sink.SetVerbose(opts.Verbose)
	}
}

func (a *App) loadConfig(cwd string, opts RunOptions) (domain.Config, error) {
	root := opts.Root
	if root == "" {
		discovered, err := a.loader.DiscoverRoot(cwd)
		if err != nil {
			return domain.Config{}, errors.Join(domain.ErrFailedToGetRoot, err)
		}
		root = discovered
	} else if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, root)
	}

	cfg, err := a.loader.Load(filepath.Clean(root))
	if err != nil {
		return domain.Config{}, err
	}

	// Flags take precedence over the environment and the file.
	if opts.Tool != "" {
		cfg.ToolPath = opts.Tool
	}
	if opts.OutputMode != "" {
		if !domain.ValidOutputMode(opts.OutputMode) && opts.OutputMode != "ci" {
			return domain.Config{}, zerr.With(
				zerr.Wrap(domain.ErrInvalidOutputMode, "invalid --output"), "output", opts.OutputMode)
		}
		cfg.OutputMode = opts.OutputMode
	}

	return cfg, nil
}

func (a *App) resolveInput(ctx context.Context, cwd, mode string, opts RunOptions) (*string, error) {
	switch {
	case opts.Message != nil:
		return opts.Message, nil
	case opts.InputFile == "-":
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, errors.Join(domain.ErrInputReadFailed, zerr.Wrap(err, "failed to read stdin"))
		}
		return domain.Text(string(data)), nil
	case opts.InputFile != "":
		path := opts.InputFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		//nolint:gosec // path is supplied by the user on the command line
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Join(
				domain.ErrInputReadFailed,
				zerr.With(zerr.Wrap(err, "failed to read input file"), "path", path),
			)
		}
		return domain.Text(string(data)), nil
	case opts.NoInput:
		return nil, nil
	}

	text, err := a.promptFor(mode).Prompt(ctx, PromptTitle)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

func (a *App) promptFor(mode string) ports.Prompter {
	if a.prompter != nil {
		return a.prompter
	}
	if mode == domain.OutputTUI {
		return tui.NewPrompter(a.teaOptions...)
	}
	return linear.NewPrompter(a.stdin, a.stderr, a.stdinTTY())
}

// redirectLogs keeps log output off the terminal while the TUI owns it.
// Logs go to the file named by SMAKE_LOG, relative to root, or are discarded.
func (a *App) redirectLogs(root string) (func(), error) {
	sink, ok := a.logger.(logSink)
	if !ok {
		return func() {}, nil
	}

	path := os.Getenv(domain.LogEnvVar)
	if path == "" {
		sink.SetOutput(io.Discard)
		return func() { sink.SetOutput(a.stderr) }, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	//nolint:gosec // path is supplied by the user through the environment
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open log file"), "path", path)
	}

	sink.SetOutput(f)
	return func() {
		sink.SetOutput(a.stderr)
		_ = f.Close()
	}, nil
}

func summaryError(summary domain.RunSummary) error {
	if summary.OK() {
		return nil
	}

	var errs []error
	if len(summary.Failed) > 0 {
		errs = append(errs, domain.ErrTargetsFailed, zerr.With(
			zerr.New(strconv.Itoa(len(summary.Failed))+" of "+
				strconv.Itoa(len(summary.Failed)+len(summary.Completed))+" targets failed"),
			"failed", strings.Join(summary.Failed, ", "),
		))
	}
	if summary.Cancelled {
		errs = append(errs, domain.ErrCancelled)
	}
	return errors.Join(errs...)
}

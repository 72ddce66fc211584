// Package terraform drives the external terraform binary: it synthesizes
// command invocations, runs them, and keeps an in-memory snapshot of the
// state file that is re-read after every successful invocation.
//
// A Terraform instance is not safe for concurrent invocations; callers
// serialize calls per instance or use independent instances.
package terraform

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/tfdriver/internal/cliargs"
	"git.home.luguber.info/inful/tfdriver/internal/logfields"
	"git.home.luguber.info/inful/tfdriver/internal/metrics"
	"git.home.luguber.info/inful/tfdriver/internal/runner"
	"git.home.luguber.info/inful/tfdriver/internal/tfstate"
)

// RunRecord describes one completed synchronous invocation, as delivered
// to registered observers (journal, auditing).
type RunRecord struct {
	Command   string
	Tokens    []string
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
}

// Terraform wraps one working directory's terraform usage.
type Terraform struct {
	workingDir  string
	binPath     string
	statePath   string
	targets     []string
	variables   map[string]any
	varFile     string
	parallelism int
	inheritEnv  bool

	logger    *slog.Logger
	runner    *runner.Runner
	varFiles  *cliargs.VarFiles
	builder   *cliargs.Builder
	recorder  metrics.Recorder
	observers []func(RunRecord)

	state     *tfstate.State
	latestCmd string
}

// Option configures a Terraform instance at construction time.
type Option func(*Terraform)

// WithBinary overrides the terraform binary path (default "terraform").
func WithBinary(path string) Option {
	return func(t *Terraform) { t.binPath = path }
}

// WithLogger injects the logging sink. There is no global logging side
// effect on construction.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Terraform) { t.logger = logger }
}

// WithState sets the default state file path, relative to the working
// directory unless absolute.
func WithState(path string) Option {
	return func(t *Terraform) { t.statePath = path }
}

// WithTargets sets default -target values for plan/apply/destroy.
func WithTargets(targets ...string) Option {
	return func(t *Terraform) { t.targets = targets }
}

// WithVariables sets default variables, passed through a temporary var
// file on each invocation.
func WithVariables(vars map[string]any) Option {
	return func(t *Terraform) { t.variables = vars }
}

// WithVarFile sets a default -var-file path.
func WithVarFile(path string) Option {
	return func(t *Terraform) { t.varFile = path }
}

// WithParallelism sets the default -parallelism value.
func WithParallelism(n int) Option {
	return func(t *Terraform) { t.parallelism = n }
}

// WithEnvPassthrough controls whether the child inherits this process's
// environment (default true). Disable for isolation from ambient
// credentials.
func WithEnvPassthrough(inherit bool) Option {
	return func(t *Terraform) { t.inheritEnv = inherit }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Terraform) { t.recorder = r }
}

// WithObserver registers a callback invoked after every completed
// synchronous invocation.
func WithObserver(fn func(RunRecord)) Option {
	return func(t *Terraform) { t.observers = append(t.observers, fn) }
}

// New constructs a driver rooted at workingDir (empty means the process's
// current directory). The initial state snapshot is loaded eagerly; a
// missing state file yields an empty snapshot.
func New(workingDir string, opts ...Option) (*Terraform, error) {
	t := &Terraform{
		workingDir: workingDir,
		binPath:    "terraform",
		inheritEnv: true,
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.runner = runner.New(t.logger)
	t.varFiles = cliargs.NewVarFiles()
	t.builder = cliargs.NewBuilder(t.binPath, t.varFiles)

	if err := t.ReadStateFile(""); err != nil {
		return nil, err
	}
	return t, nil
}

// runSettings holds per-call execution policy.
type runSettings struct {
	capture      runner.CaptureMode
	raiseOnError bool
	synchronous  bool
}

// RunOption adjusts execution policy for a single invocation. Defaults:
// buffered capture, raise on nonzero exit, synchronous.
type RunOption func(*runSettings)

// WithCapture selects the output capture mode.
func WithCapture(mode runner.CaptureMode) RunOption {
	return func(s *runSettings) { s.capture = mode }
}

// WithoutRaise returns the raw exit code instead of a CommandError on
// nonzero exit.
func WithoutRaise() RunOption {
	return func(s *runSettings) { s.raiseOnError = false }
}

// WithAsync starts the child and returns immediately with a pending
// result. No awaiting mechanism is provided; the caller arranges that
// externally. Temporary var files created for an async invocation stay
// on disk until the next synchronous invocation cleans up.
func WithAsync() RunOption {
	return func(s *runSettings) { s.synchronous = false }
}

// Cmd runs an arbitrary terraform command with the given options, verbatim.
// The instance defaults (state, targets, variables, var-file, parallelism,
// no-color, input=false) are NOT merged here: most terraform commands
// reject them (output, state, import). The typed wrappers that plan or
// mutate infrastructure (Init, Plan, Apply, Refresh, Destroy) apply them;
// pass cliargs.NoFlag or cliargs.Nil in a wrapper's extra options to
// suppress one. On exit 0 the state snapshot is re-read. Every temporary
// var file created for a synchronous invocation is removed before Cmd
// returns, regardless of outcome.
func (t *Terraform) Cmd(ctx context.Context, command string, args []string, opts cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	return t.cmd(ctx, nil, command, args, opts, runOpts...)
}

// CmdIn is Cmd with a -chdir global option pointing at dir.
func (t *Terraform) CmdIn(ctx context.Context, dir, command string, args []string, opts cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	return t.cmd(ctx, t.globalOptions(dir), command, args, opts, runOpts...)
}

// cmd is the single execution path: build tokens, spawn, react to the
// exit code, clean up var files on every return.
func (t *Terraform) cmd(ctx context.Context, global cliargs.Options, command string, args []string, opts cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	settings := runSettings{
		capture:      runner.CaptureBuffered,
		raiseOnError: true,
		synchronous:  true,
	}
	for _, opt := range runOpts {
		opt(&settings)
	}

	// Async children may still be reading their var file when control
	// returns; those files are swept by the next synchronous cleanup.
	cleanupVarFiles := true
	defer func() {
		if cleanupVarFiles {
			t.varFiles.CleanUp()
		}
	}()

	tokens, err := t.builder.Build(global, command, args, opts)
	if err != nil {
		return runner.Result{}, err
	}
	t.latestCmd = strings.Join(tokens, " ")

	start := time.Now()
	result, err := t.runner.Run(ctx, runner.Spec{
		Tokens:      tokens,
		Dir:         t.workingDir,
		InheritEnv:  t.inheritEnv,
		Capture:     settings.capture,
		Synchronous: settings.synchronous,
	})
	if err != nil {
		return runner.Result{}, err
	}
	if !settings.synchronous {
		cleanupVarFiles = false
		return result, nil
	}

	duration := time.Since(start)
	t.logger.Debug("Command completed",
		logfields.Command(command),
		logfields.ExitCode(result.ExitCode),
		logfields.DurationMS(float64(duration.Milliseconds())))
	t.observe(command, tokens, result, start, duration)

	if result.ExitCode == 0 {
		if err := t.ReadStateFile(""); err != nil {
			return result, err
		}
	} else {
		t.logger.Warn("Command exited nonzero",
			logfields.Command(command),
			logfields.ExitCode(result.ExitCode))
		if settings.raiseOnError {
			return result, &CommandError{
				ExitCode: result.ExitCode,
				Command:  t.latestCmd,
				Stdout:   result.Stdout,
				Stderr:   result.Stderr,
			}
		}
	}
	return result, nil
}

func (t *Terraform) observe(command string, tokens []string, result runner.Result, start time.Time, duration time.Duration) {
	outcome := metrics.ResultSuccess
	if result.ExitCode != 0 {
		outcome = metrics.ResultFailure
	}
	t.recorder.ObserveCommandDuration(command, duration)
	t.recorder.IncCommandResult(command, outcome)

	record := RunRecord{
		Command:   command,
		Tokens:    tokens,
		ExitCode:  result.ExitCode,
		StartedAt: start,
		Duration:  duration,
		Success:   result.ExitCode == 0,
	}
	for _, fn := range t.observers {
		fn(record)
	}
}

// defaultOptions mirrors the instance configuration into per-call options.
func (t *Terraform) defaultOptions() cliargs.Options {
	opts := cliargs.Options{
		"no_color": cliargs.Flag(),
		"input":    cliargs.Bool(false),
	}
	if t.statePath != "" {
		opts["state"] = cliargs.String(t.statePath)
	}
	if len(t.targets) > 0 {
		opts["target"] = cliargs.List(t.targets...)
	}
	if len(t.variables) > 0 {
		opts["var"] = cliargs.Map(t.variables)
	}
	if t.varFile != "" {
		opts["var_file"] = cliargs.String(t.varFile)
	}
	if t.parallelism > 0 {
		opts["parallelism"] = cliargs.Int(t.parallelism)
	}
	return opts
}

// globalOptions synthesizes the -chdir global option for a target dir.
func (t *Terraform) globalOptions(dir string) cliargs.Options {
	if dir == "" {
		return nil
	}
	return cliargs.Options{"chdir": cliargs.String(dir)}
}

// ReadStateFile refreshes the state snapshot. Path resolution: explicit
// argument, configured default, backend state path, conventional default,
// all relative to the working directory. A missing file yields an empty
// snapshot and is not an error.
func (t *Terraform) ReadStateFile(path string) error {
	resolved := tfstate.ResolvePath(t.workingDir, path, t.statePath)
	state, err := tfstate.Load(resolved)
	if err != nil {
		return err
	}
	t.state = state
	t.recorder.SetManagedResources(len(state.Resources()))
	t.recorder.SetStateSerial(state.Serial())
	t.logger.Debug("State snapshot loaded",
		logfields.Path(resolved),
		slog.Bool("empty", state.IsEmpty()))
	return nil
}

// State returns the current read-only state snapshot. It is overwritten in
// place on each successful invocation; readers needing a stable view keep
// their own reference.
func (t *Terraform) State() *tfstate.State { return t.state }

// WorkingDir returns the configured working directory.
func (t *Terraform) WorkingDir() string { return t.workingDir }

// LatestCommand returns the most recently built invocation as one string,
// for diagnostics.
func (t *Terraform) LatestCommand() string { return t.latestCmd }

// stdoutOf unwraps captured stdout, empty when absent.
func stdoutOf(result runner.Result) string {
	return result.Stdout.OrElse("")
}

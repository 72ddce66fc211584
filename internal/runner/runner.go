// Package runner executes assembled command token sequences as child
// processes and captures their outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/tfdriver/internal/foundation"
	"git.home.luguber.info/inful/tfdriver/internal/logfields"
)

// CaptureMode selects where the child's stdout/stderr go.
type CaptureMode int

const (
	// CaptureBuffered redirects output to in-memory buffers, decoded as
	// text after the process exits.
	CaptureBuffered CaptureMode = iota
	// CaptureInherited lets the child write to this process's own streams.
	// The result then carries no captured text.
	CaptureInherited
	// CaptureSuppressed discards output entirely.
	CaptureSuppressed
)

// Spec describes one subprocess invocation.
type Spec struct {
	// Tokens is the full argument vector, binary path first.
	Tokens []string
	// Dir is the working directory; empty means the caller's current dir.
	Dir string
	// InheritEnv copies the parent environment into the child. When false
	// the child gets a minimal environment, isolating it from ambient
	// credentials and paths.
	InheritEnv bool
	// Capture selects the output handling mode.
	Capture CaptureMode
	// Synchronous blocks until the child exits. When false the child is
	// started and left running; the returned Result is pending and carries
	// no fields.
	Synchronous bool
}

// Result is the outcome of one invocation. Stdout and Stderr are absent
// (not empty) whenever capture was not in buffered mode, so "not captured"
// stays distinguishable from "captured empty".
type Result struct {
	ExitCode  int
	Completed bool
	Stdout    foundation.Option[string]
	Stderr    foundation.Option[string]
}

// Runner spawns child processes. The logger is injected; Runner never
// touches global logging state.
type Runner struct {
	logger *slog.Logger
}

// New returns a Runner logging through logger (slog.Default() when nil).
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes the token sequence. The returned error covers spawn and
// wait failures only; a nonzero exit code is reported through
// Result.ExitCode, not as an error. Mapping nonzero exits to typed errors
// is the caller's policy.
func (r *Runner) Run(ctx context.Context, spec Spec) (Result, error) {
	if len(spec.Tokens) == 0 {
		return Result{}, errors.New("runner: empty token sequence")
	}

	cmd := exec.CommandContext(ctx, spec.Tokens[0], spec.Tokens[1:]...)
	cmd.Dir = spec.Dir
	if spec.InheritEnv {
		cmd.Env = os.Environ()
	} else {
		cmd.Env = []string{}
	}

	var stdout, stderr bytes.Buffer
	switch spec.Capture {
	case CaptureBuffered:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	case CaptureInherited:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	case CaptureSuppressed:
		// exec leaves nil streams attached to the null device.
	}

	r.logger.Debug("Spawning command",
		logfields.Command(strings.Join(spec.Tokens, " ")),
		logfields.Workdir(spec.Dir))

	if !spec.Synchronous {
		if err := cmd.Start(); err != nil {
			return Result{}, fmt.Errorf("start command: %w", err)
		}
		// Fire and forget: the caller arranges any awaiting externally.
		go func() { _ = cmd.Wait() }()
		return Result{}, nil
	}

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{}, fmt.Errorf("run command: %w", runErr)
		}
	}

	result := Result{ExitCode: exitCode, Completed: true}
	if spec.Capture == CaptureBuffered {
		result.Stdout = foundation.Some(stdout.String())
		result.Stderr = foundation.Some(stderr.String())
	}

	r.logger.Debug("Command completed", logfields.ExitCode(exitCode))
	return result, nil
}
